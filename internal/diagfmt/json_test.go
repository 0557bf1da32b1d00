package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestJSONRoundTrip(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %d, want 2", len(out.Diagnostics))
	}

	first := out.Diagnostics[0]
	if first.Code != "SEM3041" || first.Severity != "ERROR" {
		t.Fatalf("first entry = %+v", first)
	}
	if first.Location.File != "fix.lua" || first.Location.Line != 4 {
		t.Fatalf("location = %+v", first.Location)
	}
	if first.Snippet != "fix(fix)" {
		t.Fatalf("snippet = %q", first.Snippet)
	}
	if out.Truncated {
		t.Fatal("unexpected truncation")
	}
}

func TestJSONTruncation(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %d, want 1", len(out.Diagnostics))
	}
	if !out.Truncated {
		t.Fatal("expected truncation flag")
	}
}
