package types

import "testing"

func TestCanSpecialize(t *testing.T) {
	tests := []struct {
		typ  Type
		want bool
	}{
		{Of(Number), true},
		{Of(String), true},
		{Of(Boolean), true},
		{Of(Table), true},
		{Of(Function), true},
		{Of(Any), true},
		{Of(Unknown), false},
		{VariantOf(Of(Number), Of(String)), false},
	}
	for _, tt := range tests {
		if got := tt.typ.CanSpecialize(); got != tt.want {
			t.Errorf("CanSpecialize(%s) = %v, want %v", tt.typ.Kind, got, tt.want)
		}
	}
}

func TestCpp(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Of(Number), "double"},
		{Of(String), "std::string"},
		{Of(Boolean), "bool"},
		{Of(Table), "TABLE"},
		{Of(Any), "luaValue"},
		{Of(Unknown), "auto"},
		{Of(Function), "auto"},
		{VariantOf(Of(Number), Of(String)), "std::variant<double, std::string>"},
		{VariantOf(), "std::variant<>"},
	}
	for _, tt := range tests {
		if got := tt.typ.Cpp(); got != tt.want {
			t.Errorf("Cpp(%s) = %q, want %q", tt.typ.Kind, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if Kind(200).String() != "unknown" {
		t.Error("out-of-range kind must stringify as unknown")
	}
	if Number.String() != "number" || Variant.String() != "variant" {
		t.Error("kind names broken")
	}
}

func TestShapeArrayContiguous(t *testing.T) {
	s := NewTableShape()
	s.AddPositional(Of(Number))
	s.AddPositional(Of(Number))
	s.AddPositional(Of(Number))
	if !s.IsArray() {
		t.Fatal("{1,2,3} must classify as array")
	}
	if s.Elem().Kind != Number {
		t.Errorf("elem = %s", s.Elem().Kind)
	}
}

func TestShapeMapNonContiguous(t *testing.T) {
	s := NewTableShape()
	s.AddIntKey(1, Of(Number))
	s.AddIntKey(5, Of(Number))
	if s.IsArray() {
		t.Fatal("{[1]=1,[5]=5} must classify as map")
	}
}

func TestShapeMapStringKey(t *testing.T) {
	s := NewTableShape()
	s.AddStringKey("x", Of(Number))
	s.AddPositional(Of(Number))
	if s.IsArray() {
		t.Fatal("string key forces map classification")
	}
}

func TestShapeEmptyIsArray(t *testing.T) {
	s := NewTableShape()
	if !s.IsArray() {
		t.Fatal("empty table defaults to array")
	}
}

func TestShapeNonIntegralKey(t *testing.T) {
	s := NewTableShape()
	if s.AddIntKey(1.5, Of(Number)) {
		t.Fatal("1.5 is not an integral key")
	}
	if s.IsArray() {
		t.Fatal("non-integral key must force map classification")
	}
}

func TestShapeMixedElem(t *testing.T) {
	s := NewTableShape()
	s.AddPositional(Of(Number))
	s.AddPositional(Of(String))
	if s.Elem().Kind != Any {
		t.Errorf("mixed elements must degrade to any, got %s", s.Elem().Kind)
	}
}
