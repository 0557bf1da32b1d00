package emit

import (
	"github.com/yuin/gopher-lua/ast"
)

func (e *Emitter) stmts(list []ast.Stmt) {
	for _, st := range list {
		e.stmt(st)
	}
}

func (e *Emitter) stmt(st ast.Stmt) {
	w := e.buf
	switch n := st.(type) {
	case *ast.LocalAssignStmt:
		e.localAssign(n)

	case *ast.AssignStmt:
		e.assign(n)

	case *ast.FuncCallStmt:
		w.line(e.expr(n.Expr) + ";")

	case *ast.DoBlockStmt:
		w.line("{")
		w.push()
		e.pushScope()
		e.stmts(n.Stmts)
		e.popScope()
		w.pop()
		w.line("}")

	case *ast.WhileStmt:
		w.line("while (l2c::is_truthy(" + e.expr(n.Condition) + ")) {")
		w.push()
		e.pushScope()
		e.stmts(n.Stmts)
		e.popScope()
		w.pop()
		w.line("}")

	case *ast.RepeatStmt:
		w.line("do {")
		w.push()
		e.pushScope()
		e.stmts(n.Stmts)
		// Условие repeat видит локальные тела, поэтому считаем его до
		// выхода из области.
		cond := e.expr(n.Condition)
		e.popScope()
		w.pop()
		w.line("} while (!l2c::is_truthy(" + cond + "));")

	case *ast.IfStmt:
		e.ifChain(n, "if")

	case *ast.NumberForStmt:
		e.numberFor(n)

	case *ast.GenericForStmt:
		e.genericFor(n)

	case *ast.ReturnStmt:
		if len(n.Exprs) == 0 {
			w.line("return;")
			return
		}
		// Множественный возврат сужается до первого значения.
		w.line("return " + e.expr(n.Exprs[0]) + ";")

	case *ast.BreakStmt:
		w.line("break;")

	case *ast.FuncDefStmt:
		e.funcDef(n)

	default:
		w.line("// unsupported statement")
	}
}

func (e *Emitter) localAssign(n *ast.LocalAssignStmt) {
	w := e.buf
	// Имя видно телу: локальные функции могут рекурсировать.
	if name, fn, ok := localFunction(n); ok {
		e.bind(name)
		w.line("auto " + Mangle(name) + " = " + e.lambda(fn) + ";")
		return
	}
	for i, name := range n.Names {
		var rhs string
		if i < len(n.Exprs) {
			rhs = e.expr(n.Exprs[i])
		} else {
			rhs = "NIL"
		}

		declType := "auto"
		if t := e.in.Types.TypeOf(name); t.CanSpecialize() {
			declType = t.Cpp()
		}

		e.bind(name)
		w.line(declType + " " + Mangle(name) + " = " + rhs + ";")
	}
}

func (e *Emitter) assign(n *ast.AssignStmt) {
	w := e.buf
	for i, lhs := range n.Lhs {
		var rhs string
		if i < len(n.Rhs) {
			rhs = e.expr(n.Rhs[i])
		} else {
			rhs = "NIL"
		}

		if id, ok := lhs.(*ast.IdentExpr); ok && !e.bound(id.Value) && !(e.inMethod && id.Value == "self") {
			// Первое присваивание необъявленному имени объявляет его:
			// глобалы Lua живут как локалы тела модуля.
			declType := "auto"
			if t := e.in.Types.TypeOf(id.Value); t.CanSpecialize() {
				declType = t.Cpp()
			}
			e.bind(id.Value)
			w.line(declType + " " + Mangle(id.Value) + " = " + rhs + ";")
			continue
		}

		w.line(e.expr(lhs) + " = " + rhs + ";")
	}
}

func (e *Emitter) ifChain(n *ast.IfStmt, keyword string) {
	w := e.buf
	w.line(keyword + " (l2c::is_truthy(" + e.expr(n.Condition) + ")) {")
	w.push()
	e.pushScope()
	e.stmts(n.Then)
	e.popScope()
	w.pop()

	if len(n.Else) == 0 {
		w.line("}")
		return
	}

	// elseif сворачивается в else if, как написал бы человек.
	if len(n.Else) == 1 {
		if next, ok := n.Else[0].(*ast.IfStmt); ok {
			e.ifChain(next, "} else if")
			return
		}
	}

	w.line("} else {")
	w.push()
	e.pushScope()
	e.stmts(n.Else)
	e.popScope()
	w.pop()
	w.line("}")
}

func (e *Emitter) numberFor(n *ast.NumberForStmt) {
	w := e.buf
	name := Mangle(n.Name)
	step := "1"
	if n.Step != nil {
		step = e.expr(n.Step)
	}
	w.line("for (double " + name + " = " + e.expr(n.Init) + "; " + name + " <= " + e.expr(n.Limit) + "; " + name + " += " + step + ") {")
	w.push()
	e.pushScope()
	e.bind(n.Name)
	e.stmts(n.Stmts)
	e.popScope()
	w.pop()
	w.line("}")
}

func (e *Emitter) genericFor(n *ast.GenericForStmt) {
	w := e.buf
	var src string
	if len(n.Exprs) > 0 {
		src = e.expr(n.Exprs[0])
	} else {
		src = "NEW_TABLE"
	}

	head := ""
	switch len(n.Names) {
	case 1:
		head = "for (auto& " + Mangle(n.Names[0]) + " : l2c::iterate(" + src + ")) {"
	default:
		// pairs/ipairs раскладываются в structured binding ключ-значение.
		head = "for (auto& [" + Mangle(n.Names[0]) + ", " + Mangle(n.Names[1]) + "] : l2c::iterate(" + src + ")) {"
	}
	w.line(head)
	w.push()
	e.pushScope()
	for _, name := range n.Names {
		e.bind(name)
	}
	e.stmts(n.Stmts)
	e.popScope()
	w.pop()
	w.line("}")
}

// funcDef handles non-lifted function statements: вложенные определения и
// присваивания в таблицы.
func (e *Emitter) funcDef(n *ast.FuncDefStmt) {
	w := e.buf
	if n.Name == nil {
		w.line("// unsupported function definition")
		return
	}

	if n.Name.Receiver != nil {
		// function obj:m(...) внутри тела: self становится первым
		// параметром явной лямбды.
		fn := withSelfParam(n.Func)
		recv := e.expr(n.Name.Receiver)
		w.line(recv + "[" + PoolConst(e.in.Pool.Intern(n.Name.Method)) + "] = " + e.lambda(fn) + ";")
		return
	}

	switch callee := n.Name.Func.(type) {
	case *ast.IdentExpr:
		if !e.bound(callee.Value) {
			e.bind(callee.Value)
			w.line("auto " + Mangle(callee.Value) + " = " + e.lambda(n.Func) + ";")
			return
		}
		w.line(Mangle(callee.Value) + " = " + e.lambda(n.Func) + ";")
	case *ast.AttrGetExpr:
		w.line(e.index(callee) + " = " + e.lambda(n.Func) + ";")
	default:
		w.line("// unsupported function definition")
	}
}

// withSelfParam clones the parameter list with an explicit leading self.
func withSelfParam(fn *ast.FunctionExpr) *ast.FunctionExpr {
	clone := *fn
	parList := *fn.ParList
	parList.Names = append([]string{"self"}, fn.ParList.Names...)
	clone.ParList = &parList
	return &clone
}
