package types

import (
	"fortio.org/safecast"
)

// TableShape accumulates the keys observed inside one table constructor and
// classifies the aggregate as an array or a map.
//
// Правило: массив, если нет строковых ключей И (целых ключей нет вовсе ИЛИ
// они образуют непрерывный диапазон 1..n).
type TableShape struct {
	intKeys    map[int]struct{}
	stringKeys map[string]struct{}
	next       int // следующий индекс для позиционного поля

	elem      Type
	elemMixed bool

	isArray   bool
	finalized bool
}

func NewTableShape() *TableShape {
	return &TableShape{
		intKeys:    make(map[int]struct{}),
		stringKeys: make(map[string]struct{}),
		next:       1,
	}
}

// AddPositional records a positional field ({1, 2, 3} style).
func (s *TableShape) AddPositional(value Type) {
	s.intKeys[s.next] = struct{}{}
	s.next++
	s.observe(value)
}

// AddIntKey records an explicit numeric key ([5] = x).
// Нецелые числовые ключи делают таблицу map-ом: ok=false, ключ не записывается.
func (s *TableShape) AddIntKey(key float64, value Type) bool {
	k, err := safecast.Convert[int](key)
	if err != nil {
		s.stringKeys["<non-integral>"] = struct{}{}
		s.observe(value)
		return false
	}
	s.intKeys[k] = struct{}{}
	if k >= s.next {
		s.next = k + 1
	}
	s.observe(value)
	return true
}

// AddStringKey records an explicit string key (x = 1 or ["x"] = 1).
func (s *TableShape) AddStringKey(key string, value Type) {
	s.stringKeys[key] = struct{}{}
	s.observe(value)
}

func (s *TableShape) observe(value Type) {
	if s.elem.Kind == Unknown && !s.elemMixed {
		s.elem = value
		return
	}
	if s.elem.Kind != value.Kind {
		s.elemMixed = true
		s.elem = Of(Any)
	}
}

// Finalize applies the array rule. Идемпотентен.
func (s *TableShape) Finalize() bool {
	if s.finalized {
		return s.isArray
	}
	s.finalized = true
	s.isArray = s.classify()
	return s.isArray
}

func (s *TableShape) classify() bool {
	if len(s.stringKeys) > 0 {
		return false
	}
	if len(s.intKeys) == 0 {
		return true
	}
	minKey, maxKey := 0, 0
	first := true
	for k := range s.intKeys {
		if first {
			minKey, maxKey = k, k
			first = false
			continue
		}
		if k < minKey {
			minKey = k
		}
		if k > maxKey {
			maxKey = k
		}
	}
	return minKey == 1 && maxKey == len(s.intKeys)
}

// IsArray reports the classification; finalizes on first use.
func (s *TableShape) IsArray() bool {
	return s.Finalize()
}

// Elem returns the element type observed across fields (Any if mixed).
func (s *TableShape) Elem() Type {
	return s.elem
}

// IntKeyCount reports how many distinct integer keys were observed.
func (s *TableShape) IntKeyCount() int {
	return len(s.intKeys)
}

// StringKeyCount reports how many distinct string keys were observed.
func (s *TableShape) StringKeyCount() int {
	return len(s.stringKeys)
}
