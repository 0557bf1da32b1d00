// Package detect recognizes source idioms the type system cannot see
// directly: классовый идиом "таблица функций + делегация родителю"
// и самоприменение f(f), которое номинальная система типов не выражает.
package detect

import (
	"github.com/yuin/gopher-lua/ast"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
)

// DefaultInitName — конвенциональное имя конструктора.
const DefaultInitName = "init"

// ParentInitCall captures a constructor statement delegating to the parent
// initializer: Parent.init(self, ...). При эмиссии ресивер уходит в
// неявный this, а не первым аргументом.
type ParentInitCall struct {
	Parent string
	Line   int
	// Аргументы после self, как они стоят в источнике.
	Args []ast.Expr
}

// Method is one function-valued field of a detected class.
type Method struct {
	Name          string
	IsConstructor bool
	ParentInit    *ParentInitCall
	Func          *ast.FunctionExpr
	Line          int
}

// Class describes one detected class idiom.
type Class struct {
	Name    string
	Parent  string // пусто, если родителя нет
	Methods []*Method
	Line    int
}

// Constructor returns the class constructor method, nil if none found.
// Класс без конструктора всё равно эмитится как обычный агрегат.
func (c *Class) Constructor() *Method {
	for _, m := range c.Methods {
		if m.IsConstructor {
			return m
		}
	}
	return nil
}

// Method returns the named method, nil if absent.
func (c *Class) Method(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// scanState drives the per-class walk over its method list.
type scanState uint8

const (
	stateScanning scanState = iota
	stateInConstructor
	stateDone
)

// ClassDetector builds ClassDescriptors out of the chunk's top level.
// Обнаружение аддитивно: таблица, похожая на класс, но без
// распознаваемого конструктора, классом быть не перестаёт.
type ClassDetector struct {
	file     source.FileID
	reporter diag.Reporter
	initName string

	classes map[string]*Class
	order   []string
}

func NewClassDetector(file source.FileID, reporter diag.Reporter) *ClassDetector {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &ClassDetector{
		file:     file,
		reporter: reporter,
		initName: DefaultInitName,
		classes:  make(map[string]*Class),
	}
}

// SetInitName overrides the constructor name convention.
func (d *ClassDetector) SetInitName(name string) {
	if name != "" {
		d.initName = name
	}
}

// Detect walks the chunk top level and returns detected classes in
// declaration order.
func (d *ClassDetector) Detect(chunk []ast.Stmt) []*Class {
	for _, st := range chunk {
		switch n := st.(type) {
		case *ast.AssignStmt:
			d.scanAssign(n.Lhs, n.Rhs, n.Line())
		case *ast.LocalAssignStmt:
			exprs := make([]ast.Expr, len(n.Names))
			for i := range n.Names {
				if i < len(n.Exprs) {
					exprs[i] = n.Exprs[i]
				}
			}
			idents := make([]ast.Expr, len(n.Names))
			for i, name := range n.Names {
				idents[i] = &ast.IdentExpr{Value: name}
			}
			d.scanAssign(idents, exprs, n.Line())
		case *ast.FuncDefStmt:
			d.scanFuncDef(n)
		}
	}

	out := make([]*Class, 0, len(d.order))
	for _, name := range d.order {
		cls := d.classes[name]
		if len(cls.Methods) == 0 {
			// Просто таблица, методов так и не появилось.
			continue
		}
		d.finalize(cls)
		out = append(out, cls)
	}
	return out
}

// scanAssign looks for class declarations: Name = {...} с функциональными
// полями или Name = Parent:extend().
func (d *ClassDetector) scanAssign(lhs, rhs []ast.Expr, line int) {
	for i, l := range lhs {
		ident, ok := l.(*ast.IdentExpr)
		if !ok || i >= len(rhs) || rhs[i] == nil {
			continue
		}
		switch r := rhs[i].(type) {
		case *ast.TableExpr:
			cls := d.declare(ident.Value, line)
			for _, field := range r.Fields {
				key, ok := field.Key.(*ast.StringExpr)
				if !ok {
					continue
				}
				fn, ok := field.Value.(*ast.FunctionExpr)
				if !ok {
					continue
				}
				d.attachMethod(cls, key.Value, fn, fn.Line())
			}
		case *ast.FuncCallExpr:
			// Name = Parent:extend()
			if r.Receiver == nil || r.Method != "extend" {
				continue
			}
			parent, ok := r.Receiver.(*ast.IdentExpr)
			if !ok {
				continue
			}
			cls := d.declare(ident.Value, line)
			cls.Parent = parent.Value
		}
	}
}

// scanFuncDef attaches function Class:method / Class.method definitions.
func (d *ClassDetector) scanFuncDef(n *ast.FuncDefStmt) {
	if n.Name == nil {
		return
	}
	var className, methodName string
	if n.Name.Func == nil {
		receiver, ok := n.Name.Receiver.(*ast.IdentExpr)
		if !ok {
			return
		}
		className = receiver.Value
		methodName = n.Name.Method
	} else if attr, ok := n.Name.Func.(*ast.AttrGetExpr); ok {
		root, ok := attr.Object.(*ast.IdentExpr)
		if !ok {
			return
		}
		key, ok := attr.Key.(*ast.StringExpr)
		if !ok {
			return
		}
		className = root.Value
		methodName = key.Value
	} else {
		return
	}

	cls, ok := d.classes[className]
	if !ok {
		return
	}
	d.attachMethod(cls, methodName, n.Func, n.Line())
}

func (d *ClassDetector) declare(name string, line int) *Class {
	if cls, ok := d.classes[name]; ok {
		return cls
	}
	cls := &Class{Name: name, Line: line}
	d.classes[name] = cls
	d.order = append(d.order, name)
	return cls
}

func (d *ClassDetector) attachMethod(cls *Class, name string, fn *ast.FunctionExpr, line int) {
	if cls.Method(name) != nil {
		return
	}
	cls.Methods = append(cls.Methods, &Method{
		Name:          name,
		IsConstructor: name == d.initName,
		Func:          fn,
		Line:          line,
	})
}

// finalize runs the state machine over the class methods: родительский init
// записывается, только если стоит первым содержательным стейтментом
// конструктора. Любое другое вхождение формы Parent.init(self, ...)
// структурно принимается, но помечается нефатальной диагностикой.
func (d *ClassDetector) finalize(cls *Class) {
	state := stateScanning
	for _, m := range cls.Methods {
		if state == stateScanning && m.IsConstructor {
			state = stateInConstructor
		}
		for i, st := range m.Func.Stmts {
			call, parent, ok := d.parentInitShape(st, cls)
			if !ok {
				continue
			}
			if state == stateInConstructor && i == 0 && m.ParentInit == nil {
				m.ParentInit = &ParentInitCall{
					Parent: parent,
					Line:   call.Line(),
					Args:   call.Args[1:],
				}
				continue
			}
			where := "outside the constructor"
			switch {
			case m.ParentInit != nil:
				where = "more than once"
			case m.IsConstructor:
				where = "after other constructor statements"
			}
			d.reporter.Report(diag.SemaUnsupportedPattern, diag.SevWarning,
				source.At(d.file, call.Line()),
				"parent initializer call "+parent+"."+d.initName+" appears "+where+
					"; translated verbatim", "", nil)
		}
		if state == stateInConstructor {
			// Конструктор обработан, дальнейшие вхождения формы
			// Parent.init(self, ...) только диагностируются.
			state = stateDone
		}
	}
}

// parentInitShape matches the exact statement shape Parent.init(self, ...).
func (d *ClassDetector) parentInitShape(st ast.Stmt, cls *Class) (*ast.FuncCallExpr, string, bool) {
	callStmt, ok := st.(*ast.FuncCallStmt)
	if !ok {
		return nil, "", false
	}
	call, ok := callStmt.Expr.(*ast.FuncCallExpr)
	if !ok || call.Receiver != nil {
		return nil, "", false
	}
	attr, ok := call.Func.(*ast.AttrGetExpr)
	if !ok {
		return nil, "", false
	}
	root, ok := attr.Object.(*ast.IdentExpr)
	if !ok {
		return nil, "", false
	}
	key, ok := attr.Key.(*ast.StringExpr)
	if !ok || key.Value != d.initName {
		return nil, "", false
	}
	// Имя родителя должно совпадать с объявленным, если он известен.
	if cls.Parent != "" && root.Value != cls.Parent {
		return nil, "", false
	}
	if root.Value == cls.Name {
		return nil, "", false
	}
	if len(call.Args) == 0 {
		return nil, "", false
	}
	self, ok := call.Args[0].(*ast.IdentExpr)
	if !ok || self.Value != "self" {
		return nil, "", false
	}
	return call, root.Value, true
}
