package infer

import (
	"lua2cpp/internal/types"
)

// Signature is one function declaration: ordered parameter names and the
// inferred return type. Создаётся при первом посещении объявления,
// мутируется только пока анализируется тело этой функции.
type Signature struct {
	Name       string
	Params     []string
	ParamTypes []types.Type
	Return     types.Type
	Variadic   bool
	Line       int
}

// Arity returns the number of declared parameters.
func (s *Signature) Arity() int {
	return len(s.Params)
}

// SignatureRegistry stores signatures per function name in declaration order.
// Используется для диагностик арности, не для сужения типов аргументов.
type SignatureRegistry struct {
	sigs  map[string]*Signature
	order []string
}

func NewSignatureRegistry() *SignatureRegistry {
	return &SignatureRegistry{sigs: make(map[string]*Signature)}
}

// Register records a signature. Первое объявление выигрывает,
// повторная регистрация того же имени игнорируется.
func (r *SignatureRegistry) Register(sig *Signature) bool {
	if _, ok := r.sigs[sig.Name]; ok {
		return false
	}
	r.sigs[sig.Name] = sig
	r.order = append(r.order, sig.Name)
	return true
}

// Lookup returns the signature for a function name.
func (r *SignatureRegistry) Lookup(name string) (*Signature, bool) {
	sig, ok := r.sigs[name]
	return sig, ok
}

// Len returns the number of registered signatures.
func (r *SignatureRegistry) Len() int {
	return len(r.order)
}

// Names returns function names in declaration order.
func (r *SignatureRegistry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
