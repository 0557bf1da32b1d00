package detect

import (
	"github.com/yuin/gopher-lua/ast"
)

// walkStmts calls visit for every expression node reachable from stmts,
// включая вложенные тела функций. Порядок — порядок источника.
func walkStmts(stmts []ast.Stmt, visit func(ast.Expr)) {
	for _, st := range stmts {
		walkStmt(st, visit)
	}
}

func walkStmt(st ast.Stmt, visit func(ast.Expr)) {
	switch n := st.(type) {
	case *ast.LocalAssignStmt:
		walkExprs(n.Exprs, visit)
	case *ast.AssignStmt:
		walkExprs(n.Lhs, visit)
		walkExprs(n.Rhs, visit)
	case *ast.FuncCallStmt:
		walkExpr(n.Expr, visit)
	case *ast.FuncDefStmt:
		walkExpr(n.Func, visit)
	case *ast.ReturnStmt:
		walkExprs(n.Exprs, visit)
	case *ast.IfStmt:
		walkExpr(n.Condition, visit)
		walkStmts(n.Then, visit)
		walkStmts(n.Else, visit)
	case *ast.WhileStmt:
		walkExpr(n.Condition, visit)
		walkStmts(n.Stmts, visit)
	case *ast.RepeatStmt:
		walkStmts(n.Stmts, visit)
		walkExpr(n.Condition, visit)
	case *ast.NumberForStmt:
		walkExpr(n.Init, visit)
		walkExpr(n.Limit, visit)
		if n.Step != nil {
			walkExpr(n.Step, visit)
		}
		walkStmts(n.Stmts, visit)
	case *ast.GenericForStmt:
		walkExprs(n.Exprs, visit)
		walkStmts(n.Stmts, visit)
	case *ast.DoBlockStmt:
		walkStmts(n.Stmts, visit)
	}
}

func walkExprs(exprs []ast.Expr, visit func(ast.Expr)) {
	for _, e := range exprs {
		walkExpr(e, visit)
	}
}

func walkExpr(expr ast.Expr, visit func(ast.Expr)) {
	if expr == nil {
		return
	}
	visit(expr)
	switch n := expr.(type) {
	case *ast.AttrGetExpr:
		walkExpr(n.Object, visit)
		walkExpr(n.Key, visit)
	case *ast.TableExpr:
		for _, field := range n.Fields {
			if field.Key != nil {
				walkExpr(field.Key, visit)
			}
			walkExpr(field.Value, visit)
		}
	case *ast.FuncCallExpr:
		if n.Func != nil {
			walkExpr(n.Func, visit)
		}
		if n.Receiver != nil {
			walkExpr(n.Receiver, visit)
		}
		walkExprs(n.Args, visit)
	case *ast.FunctionExpr:
		walkStmts(n.Stmts, visit)
	case *ast.LogicalOpExpr:
		walkExpr(n.Lhs, visit)
		walkExpr(n.Rhs, visit)
	case *ast.RelationalOpExpr:
		walkExpr(n.Lhs, visit)
		walkExpr(n.Rhs, visit)
	case *ast.ArithmeticOpExpr:
		walkExpr(n.Lhs, visit)
		walkExpr(n.Rhs, visit)
	case *ast.StringConcatOpExpr:
		walkExpr(n.Lhs, visit)
		walkExpr(n.Rhs, visit)
	case *ast.UnaryMinusOpExpr:
		walkExpr(n.Expr, visit)
	case *ast.UnaryNotOpExpr:
		walkExpr(n.Expr, visit)
	case *ast.UnaryLenOpExpr:
		walkExpr(n.Expr, visit)
	}
}
