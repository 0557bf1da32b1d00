// Package scope implements the lexical scope stack and symbol table used by
// every analysis phase. Each translation unit owns exactly one Table, so
// independent units can run in parallel without coordination.
package scope

import (
	"errors"
	"fmt"

	"lua2cpp/internal/source"
	"lua2cpp/internal/types"
)

var (
	// ErrDuplicateSymbol: повторное определение имени в той же области.
	// Фатально для юнита, затенение внешней области — нет.
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	// ErrScopeUnderflow: Pop на глобальной области. Всегда баг пайплайна.
	ErrScopeUnderflow = errors.New("scope stack underflow")
)

type frame struct {
	symbols map[string]*Symbol
	order   []string // порядок определения, для детерминированного обхода
}

func newFrame() *frame {
	return &frame{symbols: make(map[string]*Symbol)}
}

// Table is a stack of lexical scopes. Индекс 0 — глобальная область,
// она создаётся конструктором и не снимается никогда.
type Table struct {
	frames []*frame
}

// NewTable builds a table holding only the root (global) scope.
func NewTable() *Table {
	return &Table{frames: []*frame{newFrame()}}
}

// Depth returns the depth of the current scope (root = 0).
func (t *Table) Depth() int {
	return len(t.frames) - 1
}

// Push creates a child of the current scope and makes it current.
func (t *Table) Push() {
	t.frames = append(t.frames, newFrame())
}

// Pop restores the parent scope. Popping the root fails with ErrScopeUnderflow.
func (t *Table) Pop() error {
	if len(t.frames) == 1 {
		return ErrScopeUnderflow
	}
	t.frames = t.frames[:len(t.frames)-1]
	return nil
}

// Define introduces a binding in the current scope.
// Затенение внешних областей разрешено; дубликат в текущей — ошибка.
func (t *Table) Define(name string, kind SymbolKind, typ types.Type, span source.Span) (*Symbol, error) {
	cur := t.frames[len(t.frames)-1]
	if _, exists := cur.symbols[name]; exists {
		return nil, fmt.Errorf("%w: %q redefined in the same scope", ErrDuplicateSymbol, name)
	}
	sym := &Symbol{
		Name:       name,
		Kind:       kind,
		Type:       typ,
		ParamIndex: -1,
		Depth:      t.Depth(),
		Span:       span,
	}
	cur.symbols[name] = sym
	cur.order = append(cur.order, name)
	return sym, nil
}

// DefineParam introduces a function parameter with its positional index.
// Индекс нужен, чтобы позже сопоставить типы аргументов на вызовах
// с объявленными параметрами.
func (t *Table) DefineParam(name string, index int, span source.Span) (*Symbol, error) {
	sym, err := t.Define(name, SymbolParam, types.Of(types.Unknown), span)
	if err != nil {
		return nil, err
	}
	sym.ParamIndex = index
	return sym, nil
}

// Lookup walks outward from the current scope to the root and returns the
// nearest binding with the given name.
func (t *Table) Lookup(name string) (*Symbol, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if sym, ok := t.frames[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal checks only the current scope.
func (t *Table) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := t.frames[len(t.frames)-1].symbols[name]
	return sym, ok
}

// IsGlobal reports whether the name resolves to the root scope or is
// unresolved (свободное имя в Lua — это обращение к глобали).
func (t *Table) IsGlobal(name string) bool {
	sym, ok := t.Lookup(name)
	if !ok {
		return true
	}
	return sym.IsGlobal()
}

// CurrentSymbols returns the bindings of the current scope in definition order.
func (t *Table) CurrentSymbols() []*Symbol {
	cur := t.frames[len(t.frames)-1]
	out := make([]*Symbol, 0, len(cur.order))
	for _, name := range cur.order {
		out = append(out, cur.symbols[name])
	}
	return out
}
