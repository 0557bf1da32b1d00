package emit

import (
	"strings"
	"testing"

	"github.com/yuin/gopher-lua/parse"

	"lua2cpp/internal/collect"
	"lua2cpp/internal/detect"
	"lua2cpp/internal/diag"
	"lua2cpp/internal/infer"
	"lua2cpp/internal/source"
	"lua2cpp/internal/stdlib"
)

// emitSrc прогоняет весь конвейер анализа над исходником и эмитит юнит.
func emitSrc(t *testing.T, name, src string) (Output, *diag.Bag) {
	t.Helper()
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	bag := diag.NewBag(32)
	rep := diag.BagReporter{Bag: bag}
	reg := stdlib.NewRegistry()

	calls := collect.NewCollector(reg, id, rep).Collect(chunk)
	inferred := infer.NewResolver(reg, id, rep).Resolve(chunk)
	classes := detect.NewClassDetector(id, rep).Detect(chunk)

	em := New(Input{
		File:     fs.Get(id),
		Chunk:    chunk,
		Stdlib:   reg,
		Types:    inferred,
		Calls:    calls,
		Classes:  classes,
		Reporter: rep,
	})
	return em.Emit(), bag
}

func TestModuleInitNaming(t *testing.T) {
	out, _ := emitSrc(t, "my-file.lua", `print("hi")`)

	if !strings.Contains(out.Source, "luaValue my_file_module_init(State* state)") {
		t.Fatalf("module init signature missing:\n%s", out.Source)
	}
	if strings.Contains(out.Source, "my_file_module_init.lua") || strings.Contains(out.Source, "my-file_module_init") {
		t.Fatalf("entry point carries raw file name:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "l2c::print(_l2c__str_0);") {
		t.Fatalf("builtin call missing:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "return luaValue();") {
		t.Fatalf("module init must return a value:\n%s", out.Source)
	}
}

func TestVarargParameterThreading(t *testing.T) {
	out, _ := emitSrc(t, "script.lua", `print(arg[1])`)
	if !strings.Contains(out.Source, "script_module_init(State* state, TABLE arg)") {
		t.Fatalf("global arg reference must thread the table:\n%s", out.Source)
	}
	if !strings.Contains(out.Header, "script_module_init(State* state, TABLE arg);") {
		t.Fatalf("header must declare the threaded parameter:\n%s", out.Header)
	}

	shadowedByLocal, _ := emitSrc(t, "script.lua", "local arg = {}\nprint(arg[1])\n")
	if strings.Contains(shadowedByLocal.Source, "script_module_init(State* state, TABLE arg)") {
		t.Fatalf("local shadow must not thread arg:\n%s", shadowedByLocal.Source)
	}

	shadowedByParam, _ := emitSrc(t, "script.lua", "local function f(arg)\n\tprint(arg[1])\nend\nf(1)\n")
	if strings.Contains(shadowedByParam.Source, "script_module_init(State* state, TABLE arg)") {
		t.Fatalf("parameter shadow must not thread arg:\n%s", shadowedByParam.Source)
	}
}

func TestTopLevelFunctionEmission(t *testing.T) {
	out, _ := emitSrc(t, "mathutil.lua", `
function add(a, b)
	return a + b
end
`)
	if !strings.Contains(out.Source, "double add(State* state, auto& a, auto& b)") {
		t.Fatalf("lifted function signature wrong:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "return (a + b);") {
		t.Fatalf("arithmetic lowering wrong:\n%s", out.Source)
	}
	// Сигнатура встречается дважды: форвард и определение.
	if strings.Count(out.Source, "double add(State* state, auto& a, auto& b)") != 2 {
		t.Fatalf("expected forward declaration plus definition:\n%s", out.Source)
	}
}

func TestLibraryCallLowering(t *testing.T) {
	out, _ := emitSrc(t, "calc.lua", `
local r = math.sqrt(4)
io.write("done")
`)
	if !strings.Contains(out.Source, "double r = math_lib::sqrt(NUMBER(4));") {
		t.Fatalf("library call must specialize the binding:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "io::write(_l2c__str_0);") {
		t.Fatalf("io lowering wrong:\n%s", out.Source)
	}
}

func TestStringPoolDeduplication(t *testing.T) {
	out, _ := emitSrc(t, "dup.lua", "print(\"hello\")\nprint(\"hello\")\nprint(\"world\")\n")

	if strings.Count(out.Header, `= "hello";`) != 1 {
		t.Fatalf("hello must be pooled once:\n%s", out.Header)
	}
	if !strings.Contains(out.Header, `static const std::string _l2c__str_0 = "hello";`) {
		t.Fatalf("pool constant missing:\n%s", out.Header)
	}
	if strings.Count(out.Source, "_l2c__str_0") != 2 {
		t.Fatalf("both call sites must reference the pooled constant:\n%s", out.Source)
	}
}

func TestUnknownLibraryFunctionDegrades(t *testing.T) {
	out, bag := emitSrc(t, "odd.lua", `math.frobnicate(1)`)

	if !strings.Contains(out.Source, "math[_l2c__str_0](NUMBER(1));") {
		t.Fatalf("unknown library call must degrade to a table lookup:\n%s", out.Source)
	}
	if !strings.Contains(out.Header, "// math.frobnicate - unknown function signature") {
		t.Fatalf("header placeholder missing:\n%s", out.Header)
	}

	var missing bool
	for _, d := range bag.Items() {
		if d.Code == diag.GenMissingLibDecl {
			missing = true
		}
	}
	if !missing {
		t.Fatalf("expected GenMissingLibDecl diagnostic, got %v", bag.Items())
	}
}

func TestClassEmission(t *testing.T) {
	out, _ := emitSrc(t, "dog.lua", `
Dog = Animal:extend()

function Dog:init(name)
	Animal.init(self, name)
	self.name = name
end

function Dog:speak()
	print(self.name)
end
`)
	if !strings.Contains(out.Source, "class Dog : public Animal {") {
		t.Fatalf("class header wrong:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "Dog(auto& name) {") {
		t.Fatalf("constructor signature wrong:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "Animal::init(name);") {
		t.Fatalf("parent init must delegate with implicit receiver:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "this->name = name;") {
		t.Fatalf("self must become this:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "void speak() {") {
		t.Fatalf("plain method signature wrong:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "l2c::print(this->name);") {
		t.Fatalf("method body lowering wrong:\n%s", out.Source)
	}
	if !strings.Contains(out.Header, "class Dog;") {
		t.Fatalf("header must forward-declare the class:\n%s", out.Header)
	}
	// Объявление класса не должно дублироваться в теле модуля.
	if strings.Contains(out.Source, "Dog = ") {
		t.Fatalf("class declaration leaked into module body:\n%s", out.Source)
	}
}

func TestControlFlowLowering(t *testing.T) {
	out, _ := emitSrc(t, "flow.lua", `
local n = 10
if n > 5 then
	print("big")
elseif n > 1 then
	print("small")
else
	print("tiny")
end
while n > 0 do
	n = n - 1
end
for i = 1, 10 do
	print(i)
end
repeat
	n = n + 1
until n > 3
`)
	for _, want := range []string{
		"if (l2c::is_truthy((n > NUMBER(5)))) {",
		"} else if (l2c::is_truthy((n > NUMBER(1)))) {",
		"} else {",
		"while (l2c::is_truthy((n > NUMBER(0)))) {",
		"for (double i = NUMBER(1); i <= NUMBER(10); i += 1) {",
		"} while (!l2c::is_truthy((n > NUMBER(3))));",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("missing %q in:\n%s", want, out.Source)
		}
	}
}

func TestTableConstructorLowering(t *testing.T) {
	out, _ := emitSrc(t, "tables.lua", `
local empty = {}
local point = {x = 1, y = 2}
local list = {10, 20}
`)
	if !strings.Contains(out.Source, "TABLE empty = NEW_TABLE;") {
		t.Fatalf("empty table lowering wrong:\n%s", out.Source)
	}
	for _, want := range []string{
		"TABLE t = NEW_TABLE;",
		"t[NUMBER(1)] = NUMBER(10);",
		"t[NUMBER(2)] = NUMBER(20);",
		"return t;",
	} {
		if !strings.Contains(out.Source, want) {
			t.Errorf("missing %q in:\n%s", want, out.Source)
		}
	}
	// Строковые ключи уходят через пул.
	if !strings.Contains(out.Header, `= "x";`) {
		t.Fatalf("table keys must be pooled:\n%s", out.Header)
	}
}

func TestStringMethodSugar(t *testing.T) {
	out, _ := emitSrc(t, "sugar.lua", `
local s = "text"
local u = s:upper()
`)
	if !strings.Contains(out.Source, "string_upper(s)") {
		t.Fatalf("string method sugar wrong:\n%s", out.Source)
	}
	if !strings.Contains(out.Header, "std::string string_upper(std::string);") {
		t.Fatalf("header must declare the sugar target:\n%s", out.Header)
	}
}

func TestMainIsMangled(t *testing.T) {
	out, _ := emitSrc(t, "entry.lua", `
function main()
	return 0
end
main()
`)
	if !strings.Contains(out.Source, "main_lua(State* state)") {
		t.Fatalf("main must be mangled:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "main_lua(state);") {
		t.Fatalf("call site must use the mangled name and pass state:\n%s", out.Source)
	}
}

func TestHeaderGuardAndGlobals(t *testing.T) {
	out, _ := emitSrc(t, "util.lua", "print(\"a\")\nio.write(\"b\")\n")

	if !strings.Contains(out.Header, "#ifndef UTIL_STATE_HPP") {
		t.Fatalf("include guard missing:\n%s", out.Header)
	}
	if !strings.Contains(out.Header, "#endif  // UTIL_STATE_HPP") {
		t.Fatalf("guard terminator missing:\n%s", out.Header)
	}
	if !strings.Contains(out.Header, "namespace l2c {") {
		t.Fatalf("globals namespace missing:\n%s", out.Header)
	}
	if !strings.Contains(out.Header, "luaValue print(State* state, Args&&... args);") {
		t.Fatalf("global builtin declaration missing:\n%s", out.Header)
	}
	if !strings.Contains(out.Header, "struct io {") {
		t.Fatalf("library aggregate missing:\n%s", out.Header)
	}
	if !strings.Contains(out.Header, "write(State* state") {
		t.Fatalf("member declaration missing:\n%s", out.Header)
	}
}

func TestLocalFunctionIsLifted(t *testing.T) {
	out, _ := emitSrc(t, "calc.lua", `
local function twice(x)
	return x * 2
end
print(twice(21))
`)
	if !strings.Contains(out.Source, "twice(State* state") {
		t.Fatalf("local function must be lifted with a state handle:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "twice(state, NUMBER(21))") {
		t.Fatalf("user call must pass state first:\n%s", out.Source)
	}
	if strings.Contains(out.Source, "auto twice = ") {
		t.Fatalf("top-level local function must not stay a lambda:\n%s", out.Source)
	}
}

func TestSiblingFunctionCallThreadsState(t *testing.T) {
	out, _ := emitSrc(t, "pair.lua", `
function base()
	return 1
end
function wrapper()
	return base()
end
`)
	if !strings.Contains(out.Source, "return base(state);") {
		t.Fatalf("sibling call must pass state:\n%s", out.Source)
	}
}

func TestNestedLocalFunctionStaysLambda(t *testing.T) {
	out, _ := emitSrc(t, "nest.lua", `
function outer()
	local function inner(x)
		return x
	end
	return inner(1)
end
`)
	if !strings.Contains(out.Source, "auto inner = ") {
		t.Fatalf("nested local function must be a lambda:\n%s", out.Source)
	}
	if !strings.Contains(out.Source, "inner(state, NUMBER(1))") {
		t.Fatalf("lambda call must pass state:\n%s", out.Source)
	}
}
