package driver

import (
	"strings"
	"testing"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
)

func TestTranslateSimpleUnit(t *testing.T) {
	fs := source.NewFileSet()
	unit := TranslateSource(fs, "greet.lua", []byte("print(\"hi\")\n"), Options{})

	if unit.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", unit.Bag.Items())
	}
	if !strings.Contains(unit.Source, "luaValue greet_module_init(State* state)") {
		t.Fatalf("module init missing:\n%s", unit.Source)
	}
	if !strings.Contains(unit.Header, "#ifndef GREET_STATE_HPP") {
		t.Fatalf("header guard missing:\n%s", unit.Header)
	}
	if unit.Unsupported {
		t.Fatal("plain unit must not be marked unsupported")
	}
}

func TestTranslateParseError(t *testing.T) {
	fs := source.NewFileSet()
	unit := TranslateSource(fs, "broken.lua", []byte("local = 5\n"), Options{})

	if !unit.Bag.HasErrors() {
		t.Fatal("expected a parse diagnostic")
	}
	items := unit.Bag.Items()
	if items[0].Code != diag.SynParseFailed {
		t.Fatalf("code = %v, want SynParseFailed", items[0].Code)
	}
	if unit.Source != "" {
		t.Fatalf("no code must be emitted for a broken unit:\n%s", unit.Source)
	}
}

func TestDuplicateSymbolAbortsEmission(t *testing.T) {
	fs := source.NewFileSet()
	unit := TranslateSource(fs, "dup.lua", []byte("local x = 1\nlocal x = 2\n"), Options{})

	var dup bool
	for _, d := range unit.Bag.Items() {
		if d.Code == diag.SemaDuplicateSymbol {
			dup = true
		}
	}
	if !dup {
		t.Fatalf("expected SemaDuplicateSymbol, got %v", unit.Bag.Items())
	}
	if unit.Source != "" {
		t.Fatal("duplicate symbol must abort the unit")
	}
}

func TestSelfApplicationIsBestEffort(t *testing.T) {
	src := `local function fix(f)
	return f
end
fix(fix)
`
	fs := source.NewFileSet()
	unit := TranslateSource(fs, "fix.lua", []byte(src), Options{})

	if !unit.Unsupported {
		t.Fatal("self-application must mark the unit unsupported")
	}
	if unit.Source == "" {
		t.Fatal("translation must still proceed best-effort")
	}
	var flagged bool
	for _, d := range unit.Bag.Items() {
		if d.Code == diag.SemaSelfApplication {
			flagged = true
		}
	}
	if !flagged {
		t.Fatalf("expected SemaSelfApplication, got %v", unit.Bag.Items())
	}
}

func TestTypeMismatchIsWarningOnly(t *testing.T) {
	fs := source.NewFileSet()
	unit := TranslateSource(fs, "warn.lua", []byte("local x = 1\nx = \"s\"\n"), Options{})

	if unit.Bag.HasErrors() {
		t.Fatalf("mismatch must not be fatal: %v", unit.Bag.Items())
	}
	if !unit.Bag.HasWarnings() {
		t.Fatal("expected a mismatch warning")
	}
	if unit.Source == "" {
		t.Fatal("unit with warnings must still be emitted")
	}
}

func TestTranslateReportsPhases(t *testing.T) {
	fs := source.NewFileSet()
	var finished []string
	opts := Options{Phases: func(ev PhaseEvent) {
		if ev.Status == PhaseEnd {
			finished = append(finished, ev.Name)
		}
	}}
	unit := TranslateSource(fs, "timed.lua", []byte("local x = 1\n"), opts)

	if unit.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", unit.Bag.Items())
	}
	want := []string{"parse", "analyze", "emit", "fixup"}
	if len(finished) != len(want) {
		t.Fatalf("phases = %v, want %v", finished, want)
	}
	for i, name := range want {
		if finished[i] != name {
			t.Fatalf("phase[%d] = %q, want %q", i, finished[i], name)
		}
	}
}

func TestTranslateFixesUpLiftedFunctions(t *testing.T) {
	fs := source.NewFileSet()
	src := []byte("local function twice(x)\n\treturn x * 2\nend\nprint(twice(21))\n")
	unit := TranslateSource(fs, "math_bits.lua", src, Options{})

	if unit.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", unit.Bag.Items())
	}
	if !strings.Contains(unit.Source, "// fix_lua_semantics: variadic overload added for twice") {
		t.Fatalf("variadic overload missing:\n%s", unit.Source)
	}

	var fixed bool
	for _, d := range unit.Bag.Items() {
		if d.Code == diag.GenVariadicFixup {
			fixed = true
		}
	}
	if !fixed {
		t.Fatalf("expected GenVariadicFixup info, got %v", unit.Bag.Items())
	}

	plain := TranslateSource(fs, "math_bits2.lua", src, Options{SkipFixup: true})
	if strings.Contains(plain.Source, "fix_lua_semantics") {
		t.Fatalf("SkipFixup must leave the text alone:\n%s", plain.Source)
	}
}
