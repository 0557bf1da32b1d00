package convention

import (
	"strings"
	"testing"

	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"

	"lua2cpp/internal/diag"
)

func TestDefaults(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		module string
		kind   Kind
		ns     string
	}{
		{"math", Namespace, "math_lib"},
		{"io", Namespace, "io"},
		{"string", Namespace, "string_lib"},
		{"table", Namespace, "table_lib"},
		{"os", Namespace, "os_lib"},
		{"l2c", Namespace, "l2c"},
	}
	for _, tt := range tests {
		cfg := r.GetConfig(tt.module)
		if cfg.Convention != tt.kind || cfg.Namespace != tt.ns {
			t.Errorf("%s: got %+v", tt.module, cfg)
		}
	}

	if r.HasConvention("love") {
		t.Error("love must not be preregistered")
	}
	if r.GetConvention("love") != Table {
		t.Error("unregistered modules default to table convention")
	}
}

func TestApplySpecs(t *testing.T) {
	r := NewRegistry()
	bag := diag.NewBag(10)
	r.ApplySpecs([]string{
		"love=flat_nested",
		"G=flat",
		"broken",        // нет '='
		"x=no_such",     // неизвестная конвенция
		" pad = table ", // пробелы допустимы
	}, diag.BagReporter{Bag: bag})

	if got := r.GetConfig("love"); got.Convention != FlatNested || got.Prefix != "love_" {
		t.Errorf("love: %+v", got)
	}
	if got := r.GetConfig("G"); got.Convention != Flat || got.Prefix != "G_" {
		t.Errorf("G: %+v", got)
	}
	if !r.HasConvention("pad") {
		t.Error("padded spec must parse")
	}
	if r.HasConvention("broken") || r.HasConvention("x") {
		t.Error("malformed specs must be skipped")
	}
	if bag.Len() != 2 {
		t.Errorf("expected 2 warnings, got %d", bag.Len())
	}
}

func TestApplySettings(t *testing.T) {
	r := NewRegistry()
	r.ApplySettings(map[string]ModuleSetting{
		"love": {Style: "flat_nested", FlattenDepth: 2},
		"ui":   {Style: "namespace", Namespace: "ui_lib"},
		"bad":  {Style: "nope"},
	}, nil)

	if got := r.GetConfig("love"); got.Convention != FlatNested || got.FlattenDepth != 2 || got.Prefix != "love_" {
		t.Errorf("love: %+v", got)
	}
	if got := r.GetConfig("ui"); got.Convention != Namespace || got.Namespace != "ui_lib" {
		t.Errorf("ui: %+v", got)
	}
	if r.HasConvention("bad") {
		t.Error("bad style must be skipped")
	}
}

func TestLower(t *testing.T) {
	r := NewRegistry()
	r.ApplySpecs([]string{"love=flat_nested", "G=flat"}, nil)

	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"math", "sqrt"}, "math_lib::sqrt"},
		{[]string{"io", "write"}, "io::write"},
		{[]string{"love", "timer", "step"}, "love_timer_step"},
		{[]string{"G", "SETTINGS", "graphics"}, "G_graphics"},
		{[]string{"unknown", "field"}, `unknown["field"]`},
		{[]string{"bare"}, "bare"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := r.Lower(tt.parts); got != tt.want {
			t.Errorf("Lower(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestLowerFlattenDepth(t *testing.T) {
	cfg := Config{Convention: FlatNested, FlattenDepth: 2}
	got := LowerWith(cfg, []string{"love", "timer", "step"})
	if got != `love_timer["step"]` {
		t.Errorf("got %q", got)
	}
}

func parseChunk(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	chunk, err := parse.Parse(strings.NewReader(src), "test.lua")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return chunk
}

func firstCallExpr(t *testing.T, src string) *ast.FuncCallExpr {
	t.Helper()
	chunk := parseChunk(t, src)
	stmt, ok := chunk[0].(*ast.FuncCallStmt)
	if !ok {
		t.Fatalf("first statement is %T, want call", chunk[0])
	}
	return stmt.Expr.(*ast.FuncCallExpr)
}

func TestPathParts(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"love.timer.step()", []string{"love", "timer", "step"}},
		{"math.sqrt(4)", []string{"math", "sqrt"}},
		{`G["SETTINGS"].graphics()`, []string{"G", "SETTINGS", "graphics"}},
		{"f()", []string{"f"}},
	}
	for _, tt := range tests {
		call := firstCallExpr(t, tt.src)
		got := PathParts(call.Func)
		if len(got) != len(tt.want) {
			t.Errorf("%s: parts = %v, want %v", tt.src, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: parts = %v, want %v", tt.src, got, tt.want)
				break
			}
		}
	}
}

func TestRootName(t *testing.T) {
	call := firstCallExpr(t, "love.timer.step()")
	if got := RootName(call.Func); got != "love" {
		t.Errorf("RootName = %q", got)
	}
	call = firstCallExpr(t, "f()")
	if got := RootName(call.Func); got != "f" {
		t.Errorf("RootName = %q", got)
	}
}

func TestFingerprintTracksOverrides(t *testing.T) {
	base := NewRegistry()
	same := NewRegistry()
	if base.Fingerprint() != same.Fingerprint() {
		t.Fatal("identical registries must share a fingerprint")
	}

	flat := NewRegistry()
	flat.ApplySpecs([]string{"math=flat"}, nil)
	if flat.Fingerprint() == base.Fingerprint() {
		t.Fatal("an override must change the fingerprint")
	}
}
