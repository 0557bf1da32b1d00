package scope

import (
	"lua2cpp/internal/source"
	"lua2cpp/internal/types"
)

// SymbolKind distinguishes how a binding was introduced.
type SymbolKind uint8

const (
	SymbolInvalid  SymbolKind = iota
	SymbolLocal               // local x
	SymbolParam               // параметр функции
	SymbolGlobal              // присваивание без local на верхнем уровне
	SymbolFunction            // function f() / local function f()
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolLocal:
		return "local"
	case SymbolParam:
		return "param"
	case SymbolGlobal:
		return "global"
	case SymbolFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Symbol is one named binding inside a lexical scope.
type Symbol struct {
	Name       string
	Kind       SymbolKind
	Type       types.Type
	ParamIndex int // -1, если символ не параметр
	Depth      int // глубина области, где определён (0 = глобальная)
	Span       source.Span
}

// IsGlobal reports whether the symbol lives in the root scope.
func (s *Symbol) IsGlobal() bool {
	return s.Depth == 0
}

// IsParam reports whether the symbol is a function parameter.
func (s *Symbol) IsParam() bool {
	return s.Kind == SymbolParam
}
