package diag

import (
	"lua2cpp/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Snippet  string // исходная строка для сообщений детекторов, может быть пустой
	Notes    []Note
}
