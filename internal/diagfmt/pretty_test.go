package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("fix.lua", []byte("local function fix(f)\n\treturn f\nend\nfix(fix)\n"))

	bag := diag.NewBag(8)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaSelfApplication,
		Message:  "self-application fix(fix) cannot be expressed in the target type system; introduce an explicit indirection",
		Primary:  source.At(id, 4),
		Snippet:  "fix(fix)",
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.SemaUnresolvedLibraryFunction,
		Message:  "library function math.frobnicate is not in the catalogue",
		Primary:  source.At(id, 2),
	})
	return bag, fs
}

func TestPrettyPlain(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowSnippet: true})

	out := buf.String()
	if !strings.Contains(out, "fix.lua:4: ERROR [SEM3041]: self-application fix(fix)") {
		t.Fatalf("primary line missing:\n%s", out)
	}
	if !strings.Contains(out, "    fix(fix)\n") {
		t.Fatalf("snippet missing:\n%s", out)
	}
	if !strings.Contains(out, "fix.lua:2: WARNING [SEM3031]:") {
		t.Fatalf("warning line missing:\n%s", out)
	}
}

func TestPrettySnippetFallsBackToFileLine(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.lua", []byte("local x = 1\nlocal x = 2\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaDuplicateSymbol,
		Message:  "duplicate symbol x",
		Primary:  source.At(id, 2),
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowSnippet: true})
	if !strings.Contains(buf.String(), "    local x = 2\n") {
		t.Fatalf("file-line fallback missing:\n%s", buf.String())
	}
}

func TestPrettyWithoutSpan(t *testing.T) {
	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.IOLoadFileError,
		Message:  "failed to load file: no such file",
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	out := buf.String()
	if !strings.HasPrefix(out, "ERROR [IO4001]: failed to load file") {
		t.Fatalf("spanless format wrong:\n%s", out)
	}
}

func TestPrettyBasenameMode(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("src/deep/nested.lua", []byte("x = 1\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.SemaTypeMismatch,
		Message:  "mismatch",
		Primary:  source.At(id, 1),
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if !strings.Contains(buf.String(), "nested.lua:1:") {
		t.Fatalf("basename mode wrong:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "src/deep") {
		t.Fatalf("directory leaked in basename mode:\n%s", buf.String())
	}
}
