package emit

import (
	"github.com/yuin/gopher-lua/ast"
)

// usesGlobalArg reports whether the unit reads the implicit arguments
// table `arg` как глобал. Явный параметр arg или локальное объявление
// затеняют имя; затенённые чтения параметр модулю не навязывают.
func usesGlobalArg(chunk []ast.Stmt) bool {
	s := &argScan{}
	s.stmts(chunk, false)
	return s.found
}

type argScan struct {
	found  bool
	shadow int // глубина вложенных затенений
}

func (s *argScan) shadowed() bool { return s.shadow > 0 }

func (s *argScan) stmts(list []ast.Stmt, localShadow bool) {
	// Локальное `local arg = ...` затеняет имя до конца блока.
	blockShadow := 0
	if localShadow {
		blockShadow++
		s.shadow++
	}
	for _, st := range list {
		s.stmt(st, &blockShadow)
	}
	s.shadow -= blockShadow
}

func (s *argScan) stmt(st ast.Stmt, blockShadow *int) {
	switch n := st.(type) {
	case *ast.LocalAssignStmt:
		// `local function arg` затеняет имя уже внутри собственного тела.
		if name, fn, ok := localFunction(n); ok {
			if name == "arg" {
				*blockShadow++
				s.shadow++
			}
			s.function(fn)
			return
		}
		for _, x := range n.Exprs {
			s.expr(x)
		}
		for _, name := range n.Names {
			if name == "arg" {
				*blockShadow++
				s.shadow++
			}
		}
	case *ast.AssignStmt:
		for _, x := range n.Lhs {
			s.expr(x)
		}
		for _, x := range n.Rhs {
			s.expr(x)
		}
	case *ast.FuncCallStmt:
		s.expr(n.Expr)
	case *ast.DoBlockStmt:
		s.stmts(n.Stmts, false)
	case *ast.WhileStmt:
		s.expr(n.Condition)
		s.stmts(n.Stmts, false)
	case *ast.RepeatStmt:
		s.stmts(n.Stmts, false)
		s.expr(n.Condition)
	case *ast.IfStmt:
		s.expr(n.Condition)
		s.stmts(n.Then, false)
		s.stmts(n.Else, false)
	case *ast.NumberForStmt:
		s.expr(n.Init)
		s.expr(n.Limit)
		if n.Step != nil {
			s.expr(n.Step)
		}
		s.stmts(n.Stmts, n.Name == "arg")
	case *ast.GenericForStmt:
		for _, x := range n.Exprs {
			s.expr(x)
		}
		shadow := false
		for _, name := range n.Names {
			if name == "arg" {
				shadow = true
			}
		}
		s.stmts(n.Stmts, shadow)
	case *ast.ReturnStmt:
		for _, x := range n.Exprs {
			s.expr(x)
		}
	case *ast.FuncDefStmt:
		s.function(n.Func)
	}
}

func (s *argScan) function(fn *ast.FunctionExpr) {
	// Явный параметр arg выигрывает у всего остального.
	shadow := false
	for _, p := range fn.ParList.Names {
		if p == "arg" {
			shadow = true
		}
	}
	s.stmts(fn.Stmts, shadow)
}

func (s *argScan) expr(x ast.Expr) {
	switch v := x.(type) {
	case *ast.IdentExpr:
		if v.Value == "arg" && !s.shadowed() {
			s.found = true
		}
	case *ast.AttrGetExpr:
		s.expr(v.Object)
		s.expr(v.Key)
	case *ast.ArithmeticOpExpr:
		s.expr(v.Lhs)
		s.expr(v.Rhs)
	case *ast.StringConcatOpExpr:
		s.expr(v.Lhs)
		s.expr(v.Rhs)
	case *ast.RelationalOpExpr:
		s.expr(v.Lhs)
		s.expr(v.Rhs)
	case *ast.LogicalOpExpr:
		s.expr(v.Lhs)
		s.expr(v.Rhs)
	case *ast.UnaryMinusOpExpr:
		s.expr(v.Expr)
	case *ast.UnaryNotOpExpr:
		s.expr(v.Expr)
	case *ast.UnaryLenOpExpr:
		s.expr(v.Expr)
	case *ast.FuncCallExpr:
		if v.Func != nil {
			s.expr(v.Func)
		}
		if v.Receiver != nil {
			s.expr(v.Receiver)
		}
		for _, a := range v.Args {
			s.expr(a)
		}
	case *ast.FunctionExpr:
		s.function(v)
	case *ast.TableExpr:
		for _, f := range v.Fields {
			if f.Key != nil {
				s.expr(f.Key)
			}
			s.expr(f.Value)
		}
	}
}
