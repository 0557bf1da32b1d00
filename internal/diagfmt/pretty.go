package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>: <SEV> [<CODE>]: <Message>
// затем сниппет исходной строки и Notes, если включены опциями.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		prettyOne(w, &d, fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	loc := location(fs, d.Primary, opts.PathMode)
	sev := d.Severity.String()
	if opts.Color {
		sev = severityColor(d.Severity).Sprint(sev)
	}

	if loc != "" {
		fmt.Fprintf(w, "%s: %s [%s]: %s\n", loc, sev, d.Code.ID(), d.Message)
	} else {
		fmt.Fprintf(w, "%s [%s]: %s\n", sev, d.Code.ID(), d.Message)
	}

	if opts.ShowSnippet {
		if snip := snippet(fs, d); snip != "" {
			fmt.Fprintf(w, "    %s\n", snip)
		}
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			if nloc := location(fs, n.Span, opts.PathMode); nloc != "" {
				fmt.Fprintf(w, "  note: %s: %s\n", nloc, n.Msg)
			} else {
				fmt.Fprintf(w, "  note: %s\n", n.Msg)
			}
		}
	}
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if fs == nil || sp == (source.Span{}) {
		return ""
	}
	file := fs.Get(sp.File)
	if file == nil {
		return ""
	}
	path := file.Path
	if mode == PathModeBasename {
		path = filepath.Base(path)
	}
	if sp.Line == 0 {
		return path
	}
	return fmt.Sprintf("%s:%d", path, sp.Line)
}

// snippet prefers the recorded line, падая назад на содержимое файла.
func snippet(fs *source.FileSet, d *diag.Diagnostic) string {
	if d.Snippet != "" {
		return d.Snippet
	}
	if fs == nil || d.Primary.Line == 0 {
		return ""
	}
	file := fs.Get(d.Primary.File)
	if file == nil {
		return ""
	}
	return file.GetLine(d.Primary.Line)
}
