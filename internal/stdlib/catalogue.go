package stdlib

import "lua2cpp/internal/types"

func fn(module, name string, ret types.Kind, params []types.Kind) Function {
	return Function{
		Module:  module,
		Name:    name,
		Return:  ret,
		Params:  params,
		CppName: module + "_" + name,
	}
}

// catalogue перечисляет все функции стандартной библиотеки Lua 5.4,
// которые умеет вызывать C++ рантайм.
var catalogue = []Function{
	// io
	fn("io", "close", types.Boolean, nil),
	fn("io", "flush", types.Boolean, nil),
	fn("io", "input", types.String, nil),
	fn("io", "lines", types.Function, nil),
	fn("io", "open", types.Table, []types.Kind{types.String, types.String}),
	fn("io", "output", types.String, nil),
	fn("io", "popen", types.Function, []types.Kind{types.String, types.String}),
	fn("io", "read", types.String, nil),
	fn("io", "type", types.String, nil),
	fn("io", "write", types.Boolean, nil),

	// string
	fn("string", "byte", types.Number, []types.Kind{types.String, types.Number, types.Number}),
	fn("string", "char", types.String, []types.Kind{types.Number, types.Number, types.Number}),
	fn("string", "dump", types.String, []types.Kind{types.Function, types.Boolean}),
	fn("string", "find", types.Variant, []types.Kind{types.String, types.String, types.Number, types.Boolean}),
	fn("string", "format", types.String, []types.Kind{types.String, types.Variant, types.Variant, types.Variant}),
	fn("string", "gmatch", types.Function, []types.Kind{types.String, types.String}),
	fn("string", "gsub", types.String, []types.Kind{types.String, types.String, types.Variant, types.Number}),
	fn("string", "len", types.Number, []types.Kind{types.String}),
	fn("string", "lower", types.String, []types.Kind{types.String}),
	fn("string", "match", types.Variant, []types.Kind{types.String, types.String, types.Number}),
	fn("string", "pack", types.String, []types.Kind{types.String, types.Variant, types.Variant}),
	fn("string", "packsize", types.Number, []types.Kind{types.String}),
	fn("string", "rep", types.String, []types.Kind{types.String, types.Number, types.Number}),
	fn("string", "reverse", types.String, []types.Kind{types.String}),
	fn("string", "sub", types.String, []types.Kind{types.String, types.Number, types.Number}),
	fn("string", "unpack", types.Variant, []types.Kind{types.String, types.String, types.Number}),
	fn("string", "upper", types.String, []types.Kind{types.String}),

	// math
	fn("math", "abs", types.Number, []types.Kind{types.Number}),
	fn("math", "acos", types.Number, []types.Kind{types.Number}),
	fn("math", "asin", types.Number, []types.Kind{types.Number}),
	fn("math", "atan", types.Number, []types.Kind{types.Number, types.Number}),
	fn("math", "atan2", types.Number, []types.Kind{types.Number, types.Number}),
	fn("math", "ceil", types.Number, []types.Kind{types.Number}),
	fn("math", "cos", types.Number, []types.Kind{types.Number}),
	fn("math", "cosh", types.Number, []types.Kind{types.Number}),
	fn("math", "deg", types.Number, []types.Kind{types.Number}),
	fn("math", "exp", types.Number, []types.Kind{types.Number}),
	fn("math", "floor", types.Number, []types.Kind{types.Number}),
	fn("math", "fmod", types.Number, []types.Kind{types.Number, types.Number}),
	fn("math", "frexp", types.Number, []types.Kind{types.Number}),
	fn("math", "huge", types.Number, nil),
	fn("math", "ldexp", types.Number, []types.Kind{types.Number, types.Number}),
	fn("math", "log", types.Number, []types.Kind{types.Number, types.Number}),
	fn("math", "log10", types.Number, []types.Kind{types.Number}),
	fn("math", "max", types.Number, []types.Kind{types.Number, types.Number, types.Number}),
	fn("math", "maxinteger", types.Number, nil),
	fn("math", "min", types.Number, []types.Kind{types.Number, types.Number, types.Number}),
	fn("math", "mininteger", types.Number, nil),
	fn("math", "modf", types.Number, []types.Kind{types.Number}),
	fn("math", "pi", types.Number, nil),
	fn("math", "pow", types.Number, []types.Kind{types.Number, types.Number}),
	fn("math", "rad", types.Number, []types.Kind{types.Number}),
	fn("math", "random", types.Number, []types.Kind{types.Number, types.Number}),
	fn("math", "randomseed", types.Number, []types.Kind{types.Number}),
	fn("math", "sin", types.Number, []types.Kind{types.Number}),
	fn("math", "sinh", types.Number, []types.Kind{types.Number}),
	fn("math", "sqrt", types.Number, []types.Kind{types.Number}),
	fn("math", "tan", types.Number, []types.Kind{types.Number}),
	fn("math", "tanh", types.Number, []types.Kind{types.Number}),
	fn("math", "tointeger", types.Number, []types.Kind{types.Variant, types.Number}),
	fn("math", "type", types.String, []types.Kind{types.Variant}),
	fn("math", "ult", types.Boolean, []types.Kind{types.Number, types.Number}),

	// table
	fn("table", "concat", types.String, []types.Kind{types.Table, types.String, types.Number, types.Number}),
	fn("table", "insert", types.Boolean, []types.Kind{types.Table, types.Number, types.Variant}),
	fn("table", "move", types.Table, []types.Kind{types.Table, types.Number, types.Number, types.Number, types.Table}),
	fn("table", "pack", types.Table, []types.Kind{types.Variant, types.Variant}),
	fn("table", "remove", types.Variant, []types.Kind{types.Table, types.Number}),
	fn("table", "sort", types.Boolean, []types.Kind{types.Table, types.Function}),
	fn("table", "unpack", types.Variant, []types.Kind{types.Table, types.Number, types.Number}),

	// os
	fn("os", "clock", types.Number, nil),
	fn("os", "date", types.String, []types.Kind{types.String, types.Number}),
	fn("os", "difftime", types.Number, []types.Kind{types.Number, types.Number}),
	fn("os", "execute", types.Boolean, []types.Kind{types.String}),
	fn("os", "exit", types.Boolean, []types.Kind{types.Boolean, types.Boolean}),
	fn("os", "getenv", types.String, []types.Kind{types.String}),
	fn("os", "remove", types.Boolean, []types.Kind{types.String}),
	fn("os", "rename", types.Boolean, []types.Kind{types.String, types.String}),
	fn("os", "setlocale", types.String, []types.Kind{types.String, types.String}),
	fn("os", "time", types.Number, []types.Kind{types.Table}),
	fn("os", "tmpname", types.String, nil),

	// package
	fn("package", "loadlib", types.Function, []types.Kind{types.String, types.String}),
	fn("package", "searchpath", types.String, []types.Kind{types.String, types.String, types.String, types.String}),
	fn("package", "seeall", types.Boolean, []types.Kind{types.Table}),

	// debug
	fn("debug", "debug", types.Boolean, nil),
	fn("debug", "getfenv", types.Table, []types.Kind{types.Variant}),
	fn("debug", "gethook", types.Variant, []types.Kind{types.Variant}),
	fn("debug", "getinfo", types.Table, []types.Kind{types.Variant, types.String}),
	fn("debug", "getlocal", types.Variant, []types.Kind{types.Variant, types.Variant}),
	fn("debug", "getmetatable", types.Table, []types.Kind{types.Variant}),
	fn("debug", "getregistry", types.Table, nil),
	fn("debug", "getupvalue", types.Variant, []types.Kind{types.Variant, types.Number}),
	fn("debug", "getuservalue", types.Variant, []types.Kind{types.Variant, types.Number}),
	fn("debug", "setfenv", types.Boolean, []types.Kind{types.Variant, types.Variant}),
	fn("debug", "sethook", types.Boolean, []types.Kind{types.Variant, types.String, types.Number}),
	fn("debug", "setlocal", types.String, []types.Kind{types.Variant, types.Variant, types.Variant}),
	fn("debug", "setmetatable", types.Table, []types.Kind{types.Variant, types.Variant}),
	fn("debug", "setupvalue", types.Boolean, []types.Kind{types.Variant, types.Number, types.Variant}),
	fn("debug", "setuservalue", types.Boolean, []types.Kind{types.Variant, types.Variant, types.Number}),
	fn("debug", "traceback", types.String, []types.Kind{types.Variant, types.String, types.Number}),
	fn("debug", "upvalueid", types.Variant, []types.Kind{types.Variant, types.Number}),
	fn("debug", "upvaluejoin", types.Boolean, []types.Kind{types.Variant, types.Number, types.Variant, types.Number}),

	// coroutine
	fn("coroutine", "create", types.Function, []types.Kind{types.Function}),
	fn("coroutine", "isyieldable", types.Boolean, nil),
	fn("coroutine", "resume", types.Variant, []types.Kind{types.Variant, types.Variant, types.Variant}),
	fn("coroutine", "running", types.Variant, nil),
	fn("coroutine", "status", types.String, []types.Kind{types.Variant}),
	fn("coroutine", "wrap", types.Function, []types.Kind{types.Function}),
	fn("coroutine", "yield", types.Variant, []types.Kind{types.Variant, types.Variant}),
}
