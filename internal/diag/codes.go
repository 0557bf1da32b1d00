package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Синтаксис. Лексер и парсер внешние, поэтому код один:
	// всё, что не распарсилось, приходит сюда с текстом от парсера.
	SynInfo        Code = 2000
	SynParseFailed Code = 2001

	// Семантические
	SemaInfo                      Code = 3000
	SemaDuplicateSymbol           Code = 3002
	SemaScopeUnderflow            Code = 3003
	SemaTypeMismatch              Code = 3015
	SemaUnresolvedLibraryFunction Code = 3031
	SemaUnsupportedPattern        Code = 3040
	SemaSelfApplication           Code = 3041
	SemaBadConventionSpec         Code = 3042
	SemaPoolIndexRange            Code = 3050

	// Ошибки I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	// Генерация
	GenInfo           Code = 6000
	GenVariadicFixup  Code = 6001
	GenMissingLibDecl Code = 6002
)

var ( // todo расширить описания и использовать как notes
	codeDescription = map[Code]string{
		UnknownCode:                   "Unknown error",
		SynInfo:                       "Syntax information",
		SynParseFailed:                "Parse failed",
		SemaInfo:                      "Semantic information",
		SemaDuplicateSymbol:           "Duplicate symbol",
		SemaScopeUnderflow:            "Scope stack underflow",
		SemaTypeMismatch:              "Type mismatch with first definition",
		SemaUnresolvedLibraryFunction: "Unresolved library function",
		SemaUnsupportedPattern:        "Unsupported source pattern",
		SemaSelfApplication:           "Self-application call",
		SemaBadConventionSpec:         "Malformed call convention spec",
		SemaPoolIndexRange:            "String pool index out of range",
		IOLoadFileError:               "I/O load file error",
		IOWriteFileError:              "I/O write file error",
		GenInfo:                       "Generation information",
		GenVariadicFixup:              "Variadic overload synthesized",
		GenMissingLibDecl:             "Library declaration degraded to placeholder",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("GEN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
