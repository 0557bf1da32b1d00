package emit

import (
	"strings"
	"testing"
)

const fixupSample = `template <typename T0, typename T1>
auto add(State* state, T0& a, T1& b) {
    return a + b;
}
`

func TestFixupAddsOverload(t *testing.T) {
	out, touched := Fixup(fixupSample)

	if len(touched) != 1 || touched[0] != "add" {
		t.Fatalf("touched = %v, want [add]", touched)
	}
	for _, want := range []string{
		"template<typename T0, typename T1, typename... Unused>",
		"auto add(State* state, T0& a, T1& b, Unused&&...) {",
		"return add(state, a, b);",
		"// fix_lua_semantics: variadic overload added for add",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFixupIdempotent(t *testing.T) {
	once, _ := Fixup(fixupSample)
	twice, touched := Fixup(once)

	if len(touched) != 0 {
		t.Fatalf("second pass touched %v, want nothing", touched)
	}
	if twice != once {
		t.Fatalf("second pass changed the text:\n%s", twice)
	}
}

func TestFixupSkipsVariadicFunctions(t *testing.T) {
	src := `template <typename... Args>
luaValue print(State* state, Args&&... args) {
    return NIL;
}
`
	out, touched := Fixup(src)
	if len(touched) != 0 {
		t.Fatalf("variadic function must be skipped, touched %v", touched)
	}
	if out != src {
		t.Fatalf("text changed:\n%s", out)
	}
}

func TestFixupMultipleFunctions(t *testing.T) {
	src := fixupSample + "\n" + `template <typename T0>
auto neg(State* state, T0& x) {
    return -(x);
}
`
	out, touched := Fixup(src)
	if len(touched) != 2 {
		t.Fatalf("touched = %v, want two functions", touched)
	}
	if touched[0] != "add" || touched[1] != "neg" {
		t.Fatalf("touched order = %v, want [add neg]", touched)
	}
	if !strings.Contains(out, "return neg(state, x);") {
		t.Fatalf("forwarding body missing:\n%s", out)
	}
}

func TestFixupMatchesAbbreviatedHead(t *testing.T) {
	src := `auto twice(State* state, auto& x) {
    return (x) * (NUMBER(2));
}
`
	out, touched := Fixup(src)

	if len(touched) != 1 || touched[0] != "twice" {
		t.Fatalf("touched = %v, want [twice]", touched)
	}
	for _, want := range []string{
		"auto twice(State* state, auto& x, auto&&...) {",
		"return twice(state, x);",
		"// fix_lua_semantics: variadic overload added for twice",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	again, more := Fixup(out)
	if len(more) != 0 || again != out {
		t.Fatalf("second pass not a no-op, touched %v", more)
	}
}

func TestFixupIgnoresPlainFunctions(t *testing.T) {
	src := `luaValue script_module_init(State* state) {
    TABLE arg = NEW_TABLE;
    return NIL;
}
`
	out, touched := Fixup(src)
	if len(touched) != 0 {
		t.Fatalf("non-template function touched: %v", touched)
	}
	if out != src {
		t.Fatalf("text changed:\n%s", out)
	}
}
