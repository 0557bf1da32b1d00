package emit

import "testing"

func TestMangleKeywords(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"main", "main_lua"},
		{"class", "class_lua"},
		{"auto", "auto_lua"},
		{"value", "value"},
		{"my-name", "my_name"},
		{"2fast", "_2fast"},
	}
	for _, tc := range cases {
		if got := Mangle(tc.in); got != tc.want {
			t.Errorf("Mangle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPoolConst(t *testing.T) {
	if got := PoolConst(0); got != "_l2c__str_0" {
		t.Fatalf("PoolConst(0) = %q", got)
	}
	if got := PoolConst(17); got != "_l2c__str_17" {
		t.Fatalf("PoolConst(17) = %q", got)
	}
}

func TestEscapeCpp(t *testing.T) {
	if got := escapeCpp("a\"b\nc"); got != `a\"b\nc` {
		t.Fatalf("escapeCpp = %q", got)
	}
}
