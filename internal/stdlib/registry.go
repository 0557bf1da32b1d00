// Package stdlib is the static catalogue of the Lua 5.4 standard library:
// what modules exist, what functions they expose and how each maps to the
// flat C++ runtime name. The registry is constructible per pipeline instance,
// never process-global state.
package stdlib

import (
	"sort"

	"lua2cpp/internal/types"
)

// Function describes one standard library member.
type Function struct {
	Module  string
	Name    string
	Return  types.Kind
	Params  []types.Kind
	CppName string // плоское имя в C++ рантайме: io_write, math_sqrt, ...
}

// Variadic reports whether the signature takes a dynamic argument pack.
// В каталоге это функции с Variant-параметрами в хвосте (format, pack, ...).
func (f Function) Variadic() bool {
	if len(f.Params) < 2 {
		return false
	}
	n := len(f.Params)
	return f.Params[n-1] == types.Variant && f.Params[n-2] == types.Variant
}

// Registry holds every catalogued library function keyed by (module, name).
type Registry struct {
	funcs map[string]map[string]Function
}

// NewRegistry builds a registry preloaded with the full catalogue.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]map[string]Function, len(catalogue))}
	for _, f := range catalogue {
		mod := r.funcs[f.Module]
		if mod == nil {
			mod = make(map[string]Function)
			r.funcs[f.Module] = mod
		}
		mod[f.Name] = f
	}
	return r
}

// Lookup returns metadata for a library function.
func (r *Registry) Lookup(module, name string) (Function, bool) {
	mod, ok := r.funcs[module]
	if !ok {
		return Function{}, false
	}
	f, ok := mod[name]
	return f, ok
}

// IsLibraryFunction reports whether (module, name) is catalogued.
func (r *Registry) IsLibraryFunction(module, name string) bool {
	_, ok := r.Lookup(module, name)
	return ok
}

// IsStandardLibrary reports whether the name is a standard library module.
func (r *Registry) IsStandardLibrary(module string) bool {
	_, ok := standardLibraries[module]
	return ok
}

// Modules returns the catalogued module names in sorted order.
func (r *Registry) Modules() []string {
	out := make([]string, 0, len(r.funcs))
	for m := range r.funcs {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// ModuleFunctions returns every function of a module sorted by name.
func (r *Registry) ModuleFunctions(module string) []Function {
	mod, ok := r.funcs[module]
	if !ok {
		return nil
	}
	out := make([]Function, 0, len(mod))
	for _, f := range mod {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var standardLibraries = map[string]struct{}{
	"io": {}, "string": {}, "math": {}, "table": {},
	"os": {}, "package": {}, "debug": {}, "coroutine": {},
}
