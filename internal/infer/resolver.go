// Package infer is the central inference engine: один структурный проход по
// чанку, который присваивает каждому именованному биндингу тип и собирает
// сигнатуры функций. Инференс best-effort: нераспознанные конструкции
// деградируют в Unknown, а не в ошибку.
package infer

import (
	"errors"
	"strconv"
	"strings"

	"github.com/yuin/gopher-lua/ast"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/scope"
	"lua2cpp/internal/source"
	"lua2cpp/internal/stdlib"
	"lua2cpp/internal/types"
)

// Binding is one resolved name.
type Binding struct {
	Name  string
	Type  types.Type
	Shape *types.TableShape // только для табличных конструкторов
	Line  int
	Param bool
}

// Result maps binding names to their inferred classification.
// Тип фиксируется в точке первого определения имени.
type Result struct {
	Bindings   map[string]Binding
	Signatures *SignatureRegistry
}

// TypeOf returns the inferred type of a binding, Unknown if unresolved.
func (r *Result) TypeOf(name string) types.Type {
	if b, ok := r.Bindings[name]; ok {
		return b.Type
	}
	return types.Of(types.Unknown)
}

// ShapeOf returns table shape info for a binding, if any.
func (r *Result) ShapeOf(name string) (*types.TableShape, bool) {
	b, ok := r.Bindings[name]
	if !ok || b.Shape == nil {
		return nil, false
	}
	return b.Shape, true
}

// funcCtx captures return-type evidence while a function body is visited.
type funcCtx struct {
	ret   types.Type
	fixed bool // встретили return с известным kind
	mixed bool // встретили несовместимые kind, итог Unknown
}

// Resolver performs the inference pass. Состояние живёт на время одного
// чанка, между файлами ничего не разделяется.
type Resolver struct {
	scopes   *scope.Table
	registry *stdlib.Registry
	file     source.FileID
	reporter diag.Reporter

	result Result

	// Глобальные присваивания (имя без local). Живут вне кадров scope,
	// чтобы не ломать правило дублей для локалов.
	globals map[string]types.Type

	funcs []*funcCtx
}

func NewResolver(registry *stdlib.Registry, file source.FileID, reporter diag.Reporter) *Resolver {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Resolver{
		scopes:   scope.NewTable(),
		registry: registry,
		file:     file,
		reporter: reporter,
		result: Result{
			Bindings:   make(map[string]Binding),
			Signatures: NewSignatureRegistry(),
		},
		globals: make(map[string]types.Type),
	}
}

// Resolve runs the pass over a parsed chunk.
func (r *Resolver) Resolve(chunk []ast.Stmt) *Result {
	r.resolveStmts(chunk)
	return &r.result
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, st := range stmts {
		r.resolveStmt(st)
	}
}

func (r *Resolver) resolveStmt(st ast.Stmt) {
	switch n := st.(type) {
	case *ast.LocalAssignStmt:
		r.resolveLocalAssign(n)
	case *ast.AssignStmt:
		r.resolveAssign(n)
	case *ast.FuncCallStmt:
		r.typeOf(n.Expr)
	case *ast.FuncDefStmt:
		r.resolveFuncDef(n)
	case *ast.ReturnStmt:
		r.resolveReturn(n)
	case *ast.IfStmt:
		r.typeOf(n.Condition)
		r.inBlock(func() { r.resolveStmts(n.Then) })
		r.inBlock(func() { r.resolveStmts(n.Else) })
	case *ast.WhileStmt:
		r.typeOf(n.Condition)
		r.inBlock(func() { r.resolveStmts(n.Stmts) })
	case *ast.RepeatStmt:
		r.inBlock(func() {
			r.resolveStmts(n.Stmts)
			r.typeOf(n.Condition)
		})
	case *ast.NumberForStmt:
		r.typeOf(n.Init)
		r.typeOf(n.Limit)
		if n.Step != nil {
			r.typeOf(n.Step)
		}
		r.inBlock(func() {
			if sym := r.define(n.Name, scope.SymbolLocal, types.Of(types.Number), n.Line()); sym != nil {
				r.record(Binding{Name: n.Name, Type: sym.Type, Line: n.Line()})
			}
			r.resolveStmts(n.Stmts)
		})
	case *ast.GenericForStmt:
		for _, e := range n.Exprs {
			r.typeOf(e)
		}
		r.inBlock(func() {
			for _, name := range n.Names {
				if sym := r.define(name, scope.SymbolLocal, types.Of(types.Unknown), n.Line()); sym != nil {
					r.record(Binding{Name: name, Type: sym.Type, Line: n.Line()})
				}
			}
			r.resolveStmts(n.Stmts)
		})
	case *ast.DoBlockStmt:
		r.inBlock(func() { r.resolveStmts(n.Stmts) })
	}
}

func (r *Resolver) inBlock(body func()) {
	r.scopes.Push()
	body()
	if err := r.scopes.Pop(); err != nil {
		r.reporter.Report(diag.SemaScopeUnderflow, diag.SevError,
			source.Span{File: r.file}, err.Error(), "", nil)
	}
}

func (r *Resolver) resolveLocalAssign(n *ast.LocalAssignStmt) {
	// `local function f` — это локальный бинд функционального литерала.
	// Имя определяется до обхода тела: такие функции рекурсивны.
	if name, fn, ok := localFunction(n); ok {
		if sym := r.define(name, scope.SymbolFunction, types.Of(types.Function), n.Line()); sym != nil {
			r.record(Binding{Name: name, Type: sym.Type, Line: n.Line()})
		}
		r.resolveFunction(name, fn)
		return
	}
	for i, name := range n.Names {
		var typ types.Type
		var shape *types.TableShape
		if i < len(n.Exprs) {
			typ, shape = r.typeOf(n.Exprs[i])
		} else {
			typ = types.Of(types.Unknown)
		}
		sym := r.define(name, scope.SymbolLocal, typ, n.Line())
		if sym != nil {
			r.record(Binding{Name: name, Type: typ, Shape: shape, Line: n.Line()})
		}
	}
	// Хвостовые выражения без имени всё равно обходим: там могут быть
	// вложенные функции и таблицы.
	for i := len(n.Names); i < len(n.Exprs); i++ {
		r.typeOf(n.Exprs[i])
	}
}

func (r *Resolver) resolveAssign(n *ast.AssignStmt) {
	for i, lhs := range n.Lhs {
		var typ types.Type
		var shape *types.TableShape
		if i < len(n.Rhs) {
			typ, shape = r.typeOf(n.Rhs[i])
		} else {
			typ = types.Of(types.Unknown)
		}
		ident, ok := lhs.(*ast.IdentExpr)
		if !ok {
			// a.b = x / a[i] = x — тип корня не меняется.
			r.typeOf(lhs)
			continue
		}
		name := ident.Value
		if sym, found := r.scopes.Lookup(name); found {
			r.checkMismatch(name, sym.Type, typ, n.Line())
			continue
		}
		if prev, found := r.globals[name]; found {
			r.checkMismatch(name, prev, typ, n.Line())
			continue
		}
		// Первое присваивание глобала и есть его определение.
		r.globals[name] = typ
		r.record(Binding{Name: name, Type: typ, Shape: shape, Line: n.Line()})
	}
	for i := len(n.Lhs); i < len(n.Rhs); i++ {
		r.typeOf(n.Rhs[i])
	}
}

// checkMismatch enforces first-definition-wins: переприсваивание значения
// другого известного kind — диагностика, тип биндинга не переписывается.
func (r *Resolver) checkMismatch(name string, first, next types.Type, line int) {
	if first.Kind == types.Unknown || next.Kind == types.Unknown {
		return
	}
	if first.Kind == next.Kind {
		return
	}
	r.reporter.Report(diag.SemaTypeMismatch, diag.SevWarning,
		source.At(r.file, line),
		name+" was first defined as "+first.Kind.String()+
			", reassigned as "+next.Kind.String(), "", nil)
}

func (r *Resolver) resolveFuncDef(n *ast.FuncDefStmt) {
	name := funcDefName(n)
	if n.Name != nil && n.Name.Func != nil {
		if ident, ok := n.Name.Func.(*ast.IdentExpr); ok {
			if _, found := r.scopes.Lookup(ident.Value); !found {
				r.globals[ident.Value] = types.Of(types.Function)
				r.record(Binding{Name: ident.Value, Type: types.Of(types.Function), Line: n.Line()})
			}
		}
	}
	r.resolveFunction(name, n.Func)
}

// funcDefName renders the declared name: f, a.b.c или Class:method.
func funcDefName(n *ast.FuncDefStmt) string {
	if n.Name == nil {
		return ""
	}
	if n.Name.Func != nil {
		var parts []string
		var walk func(e ast.Expr)
		walk = func(e ast.Expr) {
			switch node := e.(type) {
			case *ast.IdentExpr:
				parts = append(parts, node.Value)
			case *ast.AttrGetExpr:
				walk(node.Object)
				if key, ok := node.Key.(*ast.StringExpr); ok {
					parts = append(parts, key.Value)
				}
			}
		}
		walk(n.Name.Func)
		return strings.Join(parts, ".")
	}
	if receiver, ok := n.Name.Receiver.(*ast.IdentExpr); ok {
		return receiver.Value + ":" + n.Name.Method
	}
	return n.Name.Method
}

// resolveFunction visits a function body in its own scope and registers the
// signature. name пуст для анонимных функций, они в реестр не попадают.
func (r *Resolver) resolveFunction(name string, fn *ast.FunctionExpr) *Signature {
	ctx := &funcCtx{ret: types.Of(types.Unknown)}
	r.funcs = append(r.funcs, ctx)

	var params []string
	variadic := false
	if fn.ParList != nil {
		params = fn.ParList.Names
		variadic = fn.ParList.HasVargs
	}

	r.scopes.Push()
	for i, p := range params {
		if _, err := r.scopes.DefineParam(p, i, source.At(r.file, fn.Line())); err != nil {
			r.reportDefineErr(p, fn.Line(), err)
			continue
		}
		r.record(Binding{Name: p, Type: types.Of(types.Unknown), Line: fn.Line(), Param: true})
	}
	r.resolveStmts(fn.Stmts)
	if err := r.scopes.Pop(); err != nil {
		r.reporter.Report(diag.SemaScopeUnderflow, diag.SevError,
			source.Span{File: r.file}, err.Error(), "", nil)
	}

	r.funcs = r.funcs[:len(r.funcs)-1]

	ret := types.Of(types.Unknown)
	if ctx.fixed && !ctx.mixed {
		ret = ctx.ret
	}
	sig := &Signature{
		Name:     name,
		Params:   append([]string(nil), params...),
		Return:   ret,
		Variadic: variadic,
		Line:     fn.Line(),
	}
	sig.ParamTypes = make([]types.Type, len(params))
	for i := range sig.ParamTypes {
		sig.ParamTypes[i] = types.Of(types.Unknown)
	}
	if name != "" {
		r.result.Signatures.Register(sig)
	}
	return sig
}

func (r *Resolver) resolveReturn(n *ast.ReturnStmt) {
	var first types.Type
	for i, e := range n.Exprs {
		t, _ := r.typeOf(e)
		if i == 0 {
			first = t
		}
	}
	if len(r.funcs) == 0 || len(n.Exprs) == 0 {
		return
	}
	ctx := r.funcs[len(r.funcs)-1]
	if first.Kind == types.Unknown || ctx.mixed {
		return
	}
	if !ctx.fixed {
		ctx.ret = types.Of(first.Kind)
		ctx.fixed = true
		return
	}
	if ctx.ret.Kind != first.Kind {
		// Разные ветки возвращают разные kind, итог Unknown.
		ctx.mixed = true
	}
}

func (r *Resolver) define(name string, kind scope.SymbolKind, typ types.Type, line int) *scope.Symbol {
	sym, err := r.scopes.Define(name, kind, typ, source.At(r.file, line))
	if err != nil {
		r.reportDefineErr(name, line, err)
		return nil
	}
	return sym
}

func (r *Resolver) reportDefineErr(name string, line int, err error) {
	code := diag.SemaDuplicateSymbol
	msg := "duplicate symbol " + name + " in the same scope"
	if errors.Is(err, scope.ErrScopeUnderflow) {
		code = diag.SemaScopeUnderflow
		msg = err.Error()
	}
	r.reporter.Report(code, diag.SevError, source.At(r.file, line), msg, "", nil)
}

// record stores a binding into the flat result map. Первое определение
// имени выигрывает, затенённые внутренние не переписывают его.
func (r *Resolver) record(b Binding) {
	if _, ok := r.result.Bindings[b.Name]; ok {
		return
	}
	r.result.Bindings[b.Name] = b
}

// typeOf classifies one expression. Для табличных конструкторов вторым
// значением возвращается форма таблицы.
func (r *Resolver) typeOf(expr ast.Expr) (types.Type, *types.TableShape) {
	switch n := expr.(type) {
	case *ast.NumberExpr:
		return types.Type{Kind: types.Number, Constant: true}, nil
	case *ast.StringExpr:
		return types.Type{Kind: types.String, Constant: true}, nil
	case *ast.TrueExpr:
		return types.Type{Kind: types.Boolean, Constant: true}, nil
	case *ast.FalseExpr:
		return types.Type{Kind: types.Boolean, Constant: true}, nil
	case *ast.NilExpr:
		return types.Of(types.Unknown), nil
	case *ast.Comma3Expr:
		return types.Of(types.Unknown), nil
	case *ast.IdentExpr:
		if sym, ok := r.scopes.Lookup(n.Value); ok {
			return sym.Type, nil
		}
		if t, ok := r.globals[n.Value]; ok {
			return t, nil
		}
		return types.Of(types.Unknown), nil
	case *ast.AttrGetExpr:
		r.typeOf(n.Object)
		r.typeOf(n.Key)
		return types.Of(types.Unknown), nil
	case *ast.TableExpr:
		return r.tableType(n)
	case *ast.FunctionExpr:
		r.resolveFunction("", n)
		return types.Of(types.Function), nil
	case *ast.FuncCallExpr:
		return r.callType(n), nil
	case *ast.LogicalOpExpr:
		lt, _ := r.typeOf(n.Lhs)
		rt, _ := r.typeOf(n.Rhs)
		// and/or возвращают операнды, тип известен только когда обе
		// стороны одного kind.
		if lt.Kind == rt.Kind {
			return types.Of(lt.Kind), nil
		}
		return types.Of(types.Unknown), nil
	case *ast.RelationalOpExpr:
		r.typeOf(n.Lhs)
		r.typeOf(n.Rhs)
		return types.Of(types.Boolean), nil
	case *ast.ArithmeticOpExpr:
		r.typeOf(n.Lhs)
		r.typeOf(n.Rhs)
		return types.Of(types.Number), nil
	case *ast.StringConcatOpExpr:
		r.typeOf(n.Lhs)
		r.typeOf(n.Rhs)
		return types.Of(types.String), nil
	case *ast.UnaryMinusOpExpr:
		r.typeOf(n.Expr)
		return types.Of(types.Number), nil
	case *ast.UnaryNotOpExpr:
		r.typeOf(n.Expr)
		return types.Of(types.Boolean), nil
	case *ast.UnaryLenOpExpr:
		r.typeOf(n.Expr)
		return types.Of(types.Number), nil
	}
	return types.Of(types.Unknown), nil
}

// tableType builds the shape of a table constructor and classifies it.
func (r *Resolver) tableType(n *ast.TableExpr) (types.Type, *types.TableShape) {
	shape := types.NewTableShape()
	for _, field := range n.Fields {
		vt, _ := r.typeOf(field.Value)
		switch key := field.Key.(type) {
		case nil:
			shape.AddPositional(vt)
		case *ast.StringExpr:
			shape.AddStringKey(key.Value, vt)
		case *ast.NumberExpr:
			shape.AddIntKey(parseNumber(key.Value), vt)
		default:
			// Вычисляемый ключ: классифицировать как массив нельзя.
			r.typeOf(field.Key)
			shape.AddStringKey("<dynamic>", vt)
		}
	}
	shape.Finalize()
	return types.Of(types.Table), shape
}

// parseNumber reads a Lua numeric literal. Шестнадцатеричные литералы
// ParseFloat не принимает, для них отдельная ветка через ParseInt.
func parseNumber(s string) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(i)
	}
	return -1
}

// callType resolves the result type of a call expression.
// Возврат пользовательских вызовов остаётся Unknown: язык-источник
// позволяет функции возвращать значения разных kind, межпроцедурного
// вывода здесь нет. Каталожные функции — известное статическое знание.
func (r *Resolver) callType(n *ast.FuncCallExpr) types.Type {
	for _, a := range n.Args {
		r.typeOf(a)
	}
	if n.Receiver != nil {
		r.typeOf(n.Receiver)
		return types.Of(types.Unknown)
	}
	if callee, ok := n.Func.(*ast.AttrGetExpr); ok {
		if root, ok := callee.Object.(*ast.IdentExpr); ok {
			if key, ok := callee.Key.(*ast.StringExpr); ok {
				if _, local := r.scopes.Lookup(root.Value); !local {
					if fn, found := r.registry.Lookup(root.Value, key.Value); found {
						return types.Of(fn.Return)
					}
				}
			}
		}
	}
	if n.Func != nil {
		r.typeOf(n.Func)
	}
	return types.Of(types.Unknown)
}

// localFunction распознаёт форму `local function f(...)`: парсер даёт её
// как локальное присваивание одного имени функциональному литералу.
func localFunction(n *ast.LocalAssignStmt) (string, *ast.FunctionExpr, bool) {
	if len(n.Names) != 1 || len(n.Exprs) != 1 {
		return "", nil, false
	}
	fn, ok := n.Exprs[0].(*ast.FunctionExpr)
	if !ok {
		return "", nil, false
	}
	return n.Names[0], fn, true
}
