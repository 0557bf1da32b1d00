// Package strpool deduplicates string literals for static allocation in the
// generated C++: каждый уникальный литерал хранится один раз, эмиттер
// ссылается на него по стабильному индексу.
package strpool

import (
	"errors"
	"fmt"
)

// ErrIndexRange: чтение по индексу, который пул не выдавал.
// На практике это всегда баг эмиттера.
var ErrIndexRange = errors.New("string pool index out of range")

// Pool stores unique literals in first-insertion order.
// Индексы никогда не переиспользуются и не переназначаются.
type Pool struct {
	strings []string
	index   map[string]int
}

func New() *Pool {
	return &Pool{index: make(map[string]int)}
}

// Intern adds a literal and returns its index. Повторная вставка
// возвращает прежний индекс, размер пула не меняется.
func (p *Pool) Intern(s string) int {
	if idx, ok := p.index[s]; ok {
		return idx
	}
	idx := len(p.strings)
	p.strings = append(p.strings, s)
	p.index[s] = idx
	return idx
}

// Get returns the literal at idx.
func (p *Pool) Get(idx int) (string, error) {
	if idx < 0 || idx >= len(p.strings) {
		return "", fmt.Errorf("%w: %d (size: %d)", ErrIndexRange, idx, len(p.strings))
	}
	return p.strings[idx], nil
}

// IndexOf returns the literal's index, if interned.
func (p *Pool) IndexOf(s string) (int, bool) {
	idx, ok := p.index[s]
	return idx, ok
}

// Contains reports whether the literal was interned.
func (p *Pool) Contains(s string) bool {
	_, ok := p.index[s]
	return ok
}

// Len returns the number of unique literals.
func (p *Pool) Len() int {
	return len(p.strings)
}

// Strings returns a copy of the pooled literals in index order.
func (p *Pool) Strings() []string {
	out := make([]string, len(p.strings))
	copy(out, p.strings)
	return out
}
