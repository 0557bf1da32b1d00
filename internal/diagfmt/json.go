package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File string `json:"file"`
	Line uint32 `json:"line,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Snippet  string       `json:"snippet,omitempty"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Truncated   bool             `json:"truncated,omitempty"`
}

// JSON пишет диагностики машинам: по объекту на запись, стабильный
// порядок тот же, что в bag (ожидается bag.Sort() заранее).
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	items := bag.Items()
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}

	for _, d := range items {
		if opts.Max > 0 && len(out.Diagnostics) >= opts.Max {
			out.Truncated = true
			break
		}
		entry := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Snippet:  d.Snippet,
			Location: jsonLocation(fs, d.Primary, opts.PathMode),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				entry.Notes = append(entry.Notes, NoteJSON{
					Message:  n.Msg,
					Location: jsonLocation(fs, n.Span, opts.PathMode),
				})
			}
		}
		out.Diagnostics = append(out.Diagnostics, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func jsonLocation(fs *source.FileSet, sp source.Span, mode PathMode) LocationJSON {
	if fs == nil || sp == (source.Span{}) {
		return LocationJSON{}
	}
	file := fs.Get(sp.File)
	if file == nil {
		return LocationJSON{}
	}
	path := file.Path
	if mode == PathModeBasename {
		path = filepath.Base(path)
	}
	return LocationJSON{File: path, Line: sp.Line}
}
