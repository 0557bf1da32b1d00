package source

import (
	"testing"
)

func TestAt(t *testing.T) {
	sp := At(2, 14)
	if sp.File != 2 || sp.Line != 14 || !sp.Known() {
		t.Fatalf("unexpected span %+v", sp)
	}
	if got := sp.String(); got != "2:14" {
		t.Errorf("String() = %q", got)
	}
}

func TestAtSyntheticLine(t *testing.T) {
	// парсер помечает сгенерированные узлы нулём или отрицательной строкой
	for _, line := range []int{0, -1} {
		sp := At(1, line)
		if sp.Known() {
			t.Errorf("At(1, %d) should be unknown, got %+v", line, sp)
		}
	}
}

func TestSnippet(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.lua", []byte("local x = 1\n  print(x)\n"))
	f := fs.Get(id)
	if got := f.Snippet(At(id, 2)); got != "print(x)" {
		t.Errorf("Snippet line 2 = %q", got)
	}
	if got := f.Snippet(At(id, 99)); got != "" {
		t.Errorf("Snippet out of range = %q", got)
	}
	if got := f.Snippet(Span{}); got != "" {
		t.Errorf("Snippet of unknown span = %q", got)
	}
}

func TestFileSetAddVirtual(t *testing.T) {
	fs := NewFileSet()
	a := fs.AddVirtual("a.lua", []byte("print('a')\n"))
	b := fs.AddVirtual("b.lua", []byte("print('b')\n"))
	if a == b {
		t.Fatal("distinct files must get distinct IDs")
	}
	if fs.Len() != 2 {
		t.Fatalf("Len() = %d", fs.Len())
	}
	got := fs.Get(b)
	if got.Path != "b.lua" || got.Flags&FileVirtual == 0 {
		t.Errorf("unexpected file %+v", got)
	}
	if byPath, ok := fs.GetByPath("a.lua"); !ok || byPath.ID != a {
		t.Errorf("GetByPath failed: %v %v", byPath, ok)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.lua", []byte("one\ntwo\nthree"))
	f := fs.Get(id)
	tests := []struct {
		line uint32
		want string
	}{
		{1, "one"},
		{2, "two"},
		{3, "three"},
		{4, ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
