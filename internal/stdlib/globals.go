package stdlib

import "sort"

// globalBuiltins — свободные имена, которые Lua резолвит в глобальные
// встроенные функции. Вызов такого имени без затенения классифицируется
// как GlobalCall.
var globalBuiltins = map[string]struct{}{
	"print":          {},
	"tonumber":       {},
	"tostring":       {},
	"type":           {},
	"pairs":          {},
	"ipairs":         {},
	"next":           {},
	"error":          {},
	"assert":         {},
	"pcall":          {},
	"xpcall":         {},
	"rawget":         {},
	"rawset":         {},
	"rawequal":       {},
	"rawlen":         {},
	"setmetatable":   {},
	"getmetatable":   {},
	"select":         {},
	"unpack":         {},
	"require":        {},
	"collectgarbage": {},
	"loadstring":     {},
	"load":           {},
	"getfenv":        {},
	"setfenv":        {},
	"gcinfo":         {},
}

// IsGlobalBuiltin reports whether the bare name is a recognized builtin.
func IsGlobalBuiltin(name string) bool {
	_, ok := globalBuiltins[name]
	return ok
}

// GlobalBuiltins returns the builtin names in sorted order.
func GlobalBuiltins() []string {
	out := make([]string, 0, len(globalBuiltins))
	for name := range globalBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
