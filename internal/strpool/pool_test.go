package strpool

import (
	"errors"
	"testing"
)

func TestInternDedup(t *testing.T) {
	p := New()
	if got := p.Intern("hello"); got != 0 {
		t.Fatalf("Intern(hello) = %d, want 0", got)
	}
	if got := p.Intern("world"); got != 1 {
		t.Fatalf("Intern(world) = %d, want 1", got)
	}
	// Повторная вставка должна вернуть прежний индекс.
	if got := p.Intern("hello"); got != 0 {
		t.Fatalf("Intern(hello) again = %d, want 0", got)
	}
	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
}

func TestGet(t *testing.T) {
	p := New()
	p.Intern("a")
	p.Intern("b")

	s, err := p.Get(1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	if s != "b" {
		t.Fatalf("Get(1) = %q, want %q", s, "b")
	}

	if _, err := p.Get(2); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("Get(2) error = %v, want ErrIndexRange", err)
	}
	if _, err := p.Get(-1); !errors.Is(err, ErrIndexRange) {
		t.Fatalf("Get(-1) error = %v, want ErrIndexRange", err)
	}
}

func TestIndexOf(t *testing.T) {
	p := New()
	p.Intern("x")

	if idx, ok := p.IndexOf("x"); !ok || idx != 0 {
		t.Fatalf("IndexOf(x) = %d,%v, want 0,true", idx, ok)
	}
	if _, ok := p.IndexOf("y"); ok {
		t.Fatal("IndexOf(y) = true, want false")
	}
	if p.Contains("y") {
		t.Fatal("Contains(y) = true, want false")
	}
}

func TestStringsOrder(t *testing.T) {
	p := New()
	for _, s := range []string{"c", "a", "b", "a"} {
		p.Intern(s)
	}
	got := p.Strings()
	want := []string{"c", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("Strings() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
