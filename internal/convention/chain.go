package convention

import (
	"github.com/yuin/gopher-lua/ast"
)

// PathParts extracts the dotted path of a chained reference expression:
// love.timer.step -> ["love", "timer", "step"]. Поддерживаются и строковые
// ключи (a["b"].c), и имена. Обход идёт от внешнего узла внутрь, затем
// порядок разворачивается.
func PathParts(expr ast.Expr) []string {
	var parts []string

	var extract func(e ast.Expr)
	extract = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.IdentExpr:
			parts = append(parts, n.Value)
		case *ast.AttrGetExpr:
			if key, ok := n.Key.(*ast.StringExpr); ok {
				parts = append(parts, key.Value)
			} else if key, ok := n.Key.(*ast.IdentExpr); ok {
				parts = append(parts, key.Value)
			}
			extract(n.Object)
		case *ast.StringExpr:
			parts = append(parts, n.Value)
		}
	}
	extract(expr)

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return parts
}

// RootName returns the root module name of a reference chain,
// or "" when the root is computed (например, вызов по результату вызова).
func RootName(expr ast.Expr) string {
	switch n := expr.(type) {
	case *ast.IdentExpr:
		return n.Value
	case *ast.AttrGetExpr:
		return RootName(n.Object)
	}
	return ""
}
