package source

import (
	"fmt"
)

// Span pins a diagnostic to a source line. Парсер Lua даёт только номера
// строк, поэтому колонка здесь не хранится.
type Span struct {
	File FileID
	Line uint32 // 1-based, 0 = позиция неизвестна
}

func (s Span) Known() bool {
	return s.Line != 0
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.File, s.Line)
}

// At builds a span for the given file and 1-based line.
// Отрицательные номера (парсер так помечает синтетические узлы) дают нулевой span.
func At(file FileID, line int) Span {
	if line <= 0 {
		return Span{File: file}
	}
	return Span{File: file, Line: uint32(line)}
}
