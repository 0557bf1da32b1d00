package emit

import (
	"sort"
	"strings"

	"lua2cpp/internal/collect"
	"lua2cpp/internal/convention"
	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
	"lua2cpp/internal/types"
)

// generateHeader renders the declaration header: пул строк, форварды
// классов, декларации использованных библиотек и builtin-ов, декларация
// точки входа модуля.
func (e *Emitter) generateHeader() string {
	w := newCW()
	guard := strings.ToUpper(e.unitName) + "_STATE_HPP"

	w.linef("// Auto-generated from %s", e.sourceName())
	w.line("// lua2cpp transpiler")
	w.linef("#ifndef %s", guard)
	w.linef("#define %s", guard)
	w.blank()
	w.line(`#include "lua_value.hpp"`)
	w.line(`#include "lua_state.hpp"`)
	w.line(`#include "lua_table.hpp"`)
	w.line("#include <cmath>")
	w.line("#include <string>")
	w.blank()

	if e.in.Pool.Len() > 0 {
		w.line("// String pool")
		for i, s := range e.in.Pool.Strings() {
			w.linef("static const std::string %s = \"%s\";", PoolConst(i), escapeCpp(s))
		}
		w.blank()
	}

	if len(e.in.Classes) > 0 {
		w.line("// Forward declarations")
		for _, cls := range e.in.Classes {
			w.linef("class %s;", Mangle(cls.Name))
		}
		w.blank()
	}

	e.libraryDecls(w)
	e.sugarDecls(w)
	e.globalDecls(w)

	params := "State* state"
	if e.threadArg {
		params += ", TABLE arg"
	}
	w.linef("luaValue %s(%s);", e.moduleInitName(), params)
	w.blank()
	w.linef("#endif  // %s", guard)

	return w.String()
}

// libraryDecls emits one aggregate per used library module, содержащий
// по одной статической декларации на каждую реально вызванную функцию.
func (e *Emitter) libraryDecls(w *cw) {
	used := groupCalls(e.in.Calls.Library)
	modules := make([]string, 0, len(used))
	for m := range used {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	for _, module := range modules {
		names := used[module]
		cfg := e.in.Conventions.GetConfig(module)

		switch cfg.Convention {
		case convention.Flat, convention.FlatNested:
			// Плоские конвенции объявляются свободными функциями.
			for _, name := range names {
				e.flatDecl(w, module, name, cfg)
			}
			w.blank()
		default:
			agg := cfg.Namespace
			if agg == "" {
				agg = module
			}
			w.linef("struct %s {", agg)
			w.push()
			for _, name := range names {
				e.memberDecl(w, module, name)
			}
			w.pop()
			w.line("};")
			w.blank()
		}
	}
}

func (e *Emitter) memberDecl(w *cw, module, name string) {
	fn, ok := e.in.Stdlib.Lookup(module, name)
	if !ok {
		w.linef("// %s.%s - unknown function signature", module, name)
		e.reportMissingDecl(module, name)
		return
	}

	ret := declType(types.Of(fn.Return))
	if fn.Variadic() {
		w.line("template <typename... Args>")
		w.linef("static %s %s(State* state, Args&&... args);", ret, name)
		return
	}

	params := []string{"State* state"}
	for _, p := range fn.Params {
		params = append(params, declType(types.Of(p)))
	}
	w.linef("static %s %s(%s);", ret, name, strings.Join(params, ", "))
}

func (e *Emitter) flatDecl(w *cw, module, name string, cfg convention.Config) {
	fn, ok := e.in.Stdlib.Lookup(module, name)
	flat := convention.LowerWith(cfg, []string{module, name})
	if !ok {
		w.linef("// %s.%s - unknown function signature", module, name)
		e.reportMissingDecl(module, name)
		return
	}

	ret := declType(types.Of(fn.Return))
	if fn.Variadic() {
		w.line("template <typename... Args>")
		w.linef("%s %s(State* state, Args&&... args);", ret, flat)
		return
	}

	params := []string{"State* state"}
	for _, p := range fn.Params {
		params = append(params, declType(types.Of(p)))
	}
	w.linef("%s %s(%s);", ret, flat, strings.Join(params, ", "))
}

// sugarDecls declares the flat runtime targets of colon sugar. s:upper()
// зовёт string_upper напрямую, мимо конвенций модуля: без декларации
// такой вызов не соберётся. Ресивер уже первый в Params, state нет.
func (e *Emitter) sugarDecls(w *cw) {
	if len(e.sugared) == 0 {
		return
	}
	names := make([]string, 0, len(e.sugared))
	for n := range e.sugared {
		names = append(names, n)
	}
	sort.Strings(names)

	w.line("// String method sugar")
	for _, name := range names {
		fn := e.sugared[name]
		ret := declType(types.Of(fn.Return))
		if fn.Variadic() {
			w.line("template <typename... Args>")
			w.linef("%s %s(Args&&... args);", ret, name)
			continue
		}
		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			params = append(params, declType(types.Of(p)))
		}
		w.linef("%s %s(%s);", ret, name, strings.Join(params, ", "))
	}
	w.blank()
}

// globalDecls declares called global builtins inside the runtime namespace.
func (e *Emitter) globalDecls(w *cw) {
	globals := e.in.Calls.UsedGlobals()
	if len(globals) == 0 {
		return
	}

	w.line("namespace l2c {")
	for _, name := range globals {
		// Builtin-ы вариативны по своей природе: print, tostring и
		// прочие принимают что угодно.
		w.line("template <typename... Args>")
		w.linef("luaValue %s(State* state, Args&&... args);", name)
	}
	w.line("}  // namespace l2c")
	w.blank()
}

func (e *Emitter) reportMissingDecl(module, name string) {
	var span source.Span
	if e.in.File != nil {
		span = source.At(e.in.File.ID, firstCallLine(e.in.Calls.Library, module, name))
	}
	e.in.Reporter.Report(diag.GenMissingLibDecl, diag.SevWarning, span,
		"no known signature for "+module+"."+name+"; declaration replaced with a placeholder", "", nil)
}

func firstCallLine(calls []collect.Call, module, name string) int {
	for _, c := range calls {
		if c.Module == module && c.Name == name {
			return c.Line
		}
	}
	return 0
}

// groupCalls collapses the call list to sorted distinct names per module.
func groupCalls(calls []collect.Call) map[string][]string {
	seen := make(map[string]map[string]struct{})
	for _, c := range calls {
		if seen[c.Module] == nil {
			seen[c.Module] = make(map[string]struct{})
		}
		seen[c.Module][c.Name] = struct{}{}
	}
	out := make(map[string][]string, len(seen))
	for module, names := range seen {
		list := make([]string, 0, len(names))
		for n := range names {
			list = append(list, n)
		}
		sort.Strings(list)
		out[module] = list
	}
	return out
}

func declType(t types.Type) string {
	if t.CanSpecialize() && t.Kind != types.Function {
		return t.Cpp()
	}
	return "luaValue"
}
