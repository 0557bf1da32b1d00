package detect

import (
	"testing"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
)

func TestSelfApplicationFlagged(t *testing.T) {
	src := `local function fix(f)
	return f
end
fix(fix)
`
	fs := source.NewFileSet()
	id := fs.AddVirtual("fix.lua", []byte(src))
	bag := diag.NewBag(8)

	d := NewSelfAppDetector(fs.Get(id), diag.BagReporter{Bag: bag})
	found := d.Detect(parseChunk(t, src))

	if len(found) != 1 {
		t.Fatalf("occurrences = %d, want 1", len(found))
	}
	if found[0].Name != "fix" || found[0].Line != 4 {
		t.Fatalf("occurrence = %+v, want fix at line 4", found[0])
	}
	if found[0].Snippet != "fix(fix)" {
		t.Fatalf("snippet = %q, want %q", found[0].Snippet, "fix(fix)")
	}

	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(items))
	}
	if items[0].Code != diag.SemaSelfApplication {
		t.Fatalf("code = %v, want SemaSelfApplication", items[0].Code)
	}
	if items[0].Snippet != "fix(fix)" {
		t.Fatalf("diagnostic snippet = %q, want fix(fix)", items[0].Snippet)
	}
}

func TestSelfApplicationOncePerOccurrence(t *testing.T) {
	found := NewSelfAppDetector(nil, nil).Detect(parseChunk(t, `
f(f)
f(f)
`))
	if len(found) != 2 {
		t.Fatalf("occurrences = %d, want 2 (once per call site)", len(found))
	}
}

func TestDistinctNamesNotFlagged(t *testing.T) {
	found := NewSelfAppDetector(nil, nil).Detect(parseChunk(t, `
f(g)
map(list, map)
obj:apply(obj)
`))
	// f(g) и метод-вызов не считаются; map(list, map) считается.
	if len(found) != 1 {
		t.Fatalf("occurrences = %d, want 1: %+v", len(found), found)
	}
	if found[0].Name != "map" {
		t.Fatalf("name = %q, want map", found[0].Name)
	}
}

func TestNestedSelfApplicationFound(t *testing.T) {
	found := NewSelfAppDetector(nil, nil).Detect(parseChunk(t, `
local function outer()
	if true then
		return rec(rec)
	end
end
`))
	if len(found) != 1 {
		t.Fatalf("occurrences = %d, want 1", len(found))
	}
}
