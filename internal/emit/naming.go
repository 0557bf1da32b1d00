package emit

import "strconv"

// prefix marks every identifier the emitter invents, чтобы не столкнуться
// с именами из пользовательского кода.
const prefix = "_l2c__"

// cppKeywords — всё, что нельзя использовать как имя в C++, плюс main:
// функция main из Lua-модуля не должна стать точкой входа программы.
var cppKeywords = map[string]struct{}{
	"alignas": {}, "alignof": {}, "and": {}, "and_eq": {}, "asm": {},
	"auto": {}, "bitand": {}, "bitor": {}, "bool": {}, "break": {},
	"case": {}, "catch": {}, "char": {}, "char8_t": {}, "char16_t": {},
	"char32_t": {}, "class": {}, "compl": {}, "concept": {}, "const": {},
	"consteval": {}, "constexpr": {}, "constinit": {}, "const_cast": {},
	"continue": {}, "co_await": {}, "co_return": {}, "co_yield": {},
	"decltype": {}, "default": {}, "delete": {}, "do": {}, "double": {},
	"dynamic_cast": {}, "else": {}, "enum": {}, "explicit": {},
	"export": {}, "extern": {}, "false": {}, "float": {}, "for": {},
	"friend": {}, "goto": {}, "if": {}, "inline": {}, "int": {},
	"long": {}, "mutable": {}, "namespace": {}, "new": {}, "noexcept": {},
	"not": {}, "not_eq": {}, "nullptr": {}, "operator": {}, "or": {},
	"or_eq": {}, "private": {}, "protected": {}, "public": {},
	"register": {}, "reinterpret_cast": {}, "requires": {}, "return": {},
	"short": {}, "signed": {}, "sizeof": {}, "static": {},
	"static_assert": {}, "static_cast": {}, "struct": {}, "switch": {},
	"template": {}, "this": {}, "thread_local": {}, "throw": {},
	"true": {}, "try": {}, "typedef": {}, "typeid": {}, "typename": {},
	"union": {}, "unsigned": {}, "using": {}, "virtual": {}, "void": {},
	"volatile": {}, "wchar_t": {}, "while": {}, "xor": {}, "xor_eq": {},

	"main": {},
}

// Mangle turns a Lua name into a valid C++ identifier. Недопустимые
// символы заменяются на подчёркивание, зарезервированные имена получают
// суффикс _lua.
func Mangle(name string) string {
	out := sanitize(name)
	if _, kw := cppKeywords[out]; kw {
		out += "_lua"
	}
	return out
}

// PoolConst names the header constant for a pooled string literal.
func PoolConst(idx int) string {
	return prefix + "str_" + strconv.Itoa(idx)
}

func sanitize(name string) string {
	if name == "" {
		return "_"
	}
	buf := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
			buf = append(buf, c)
		case c >= '0' && c <= '9':
			if i == 0 {
				buf = append(buf, '_')
			}
			buf = append(buf, c)
		default:
			buf = append(buf, '_')
		}
	}
	return string(buf)
}

// escapeCpp renders a Lua string value as a C++ string literal body.
func escapeCpp(s string) string {
	buf := make([]byte, 0, len(s)+2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			buf = append(buf, '\\', '\\')
		case '"':
			buf = append(buf, '\\', '"')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\r':
			buf = append(buf, '\\', 'r')
		case 0:
			buf = append(buf, '\\', '0')
		default:
			buf = append(buf, c)
		}
	}
	return string(buf)
}
