package detect

import (
	"github.com/yuin/gopher-lua/ast"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
)

// SelfApplication is one flagged f(f) call site. Паттерн не переписывается:
// номинальная система типов не выразит функцию от самой себя без явной
// косвенности, решение остаётся за автором источника.
type SelfApplication struct {
	Name    string
	Line    int
	Snippet string
}

// SelfAppDetector scans every call node for the f(f) shape.
type SelfAppDetector struct {
	file     *source.File
	reporter diag.Reporter
	found    []SelfApplication
}

func NewSelfAppDetector(file *source.File, reporter diag.Reporter) *SelfAppDetector {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &SelfAppDetector{file: file, reporter: reporter}
}

// Detect walks the chunk and returns every occurrence, по одной записи
// на каждый сайт вызова.
func (d *SelfAppDetector) Detect(chunk []ast.Stmt) []SelfApplication {
	walkStmts(chunk, d.visit)
	return d.found
}

func (d *SelfAppDetector) visit(expr ast.Expr) {
	call, ok := expr.(*ast.FuncCallExpr)
	if !ok || call.Receiver != nil {
		return
	}
	callee, ok := call.Func.(*ast.IdentExpr)
	if !ok {
		return
	}
	for _, arg := range call.Args {
		ident, ok := arg.(*ast.IdentExpr)
		if !ok || ident.Value != callee.Value {
			continue
		}
		occ := SelfApplication{Name: callee.Value, Line: call.Line()}
		var span source.Span
		if d.file != nil {
			span = source.At(d.file.ID, call.Line())
			occ.Snippet = d.file.Snippet(span)
		}
		d.found = append(d.found, occ)
		diag.ReportError(d.reporter, diag.SemaSelfApplication, span,
			"self-application "+callee.Value+"("+callee.Value+
				") cannot be expressed in the target type system; introduce an explicit indirection").
			WithSnippet(occ.Snippet).
			Emit()
		// Одно вхождение — одна запись, даже если имя повторяется
		// в нескольких аргументах.
		break
	}
}
