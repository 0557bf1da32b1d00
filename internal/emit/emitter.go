package emit

import (
	"fmt"
	"strings"

	"github.com/yuin/gopher-lua/ast"

	"lua2cpp/internal/collect"
	"lua2cpp/internal/convention"
	"lua2cpp/internal/detect"
	"lua2cpp/internal/diag"
	"lua2cpp/internal/infer"
	"lua2cpp/internal/source"
	"lua2cpp/internal/stdlib"
	"lua2cpp/internal/strpool"
)

// Input carries everything the emitter consumes. Все анализы уже
// выполнены; эмиттер только читает аннотации.
type Input struct {
	File        *source.File
	Chunk       []ast.Stmt
	Stdlib      *stdlib.Registry
	Conventions *convention.Registry
	Types       *infer.Result
	Calls       *collect.Result
	Classes     []*detect.Class
	Pool        *strpool.Pool
	Reporter    diag.Reporter
}

// Output holds both generated artifacts for one translation unit.
type Output struct {
	Source string
	Header string
}

// Emitter performs syntax-directed translation of one annotated chunk.
type Emitter struct {
	in Input

	buf       *cw
	scopes    []map[string]struct{}
	classes   map[string]*detect.Class
	inMethod  bool
	unitName  string // sanitized base name, без расширения
	threadArg bool   // модульному init нужен параметр TABLE arg

	// sugared копит плоские имена рантайма, в которые ушёл сахар
	// двоеточия: хедер должен их задекларировать.
	sugared map[string]stdlib.Function
}

// New builds an emitter over one analyzed unit. Nil-поля Input
// заменяются пустыми значениями, чтобы вызывающему не приходилось
// собирать весь конвейер ради маленького теста.
func New(in Input) *Emitter {
	if in.Stdlib == nil {
		in.Stdlib = stdlib.NewRegistry()
	}
	if in.Conventions == nil {
		in.Conventions = convention.NewRegistry()
	}
	if in.Types == nil {
		in.Types = &infer.Result{Signatures: infer.NewSignatureRegistry()}
	}
	if in.Calls == nil {
		in.Calls = &collect.Result{}
	}
	if in.Pool == nil {
		in.Pool = strpool.New()
	}
	if in.Reporter == nil {
		in.Reporter = diag.NopReporter{}
	}

	e := &Emitter{
		in:      in,
		classes: make(map[string]*detect.Class, len(in.Classes)),
		sugared: make(map[string]stdlib.Function),
	}
	for _, cls := range in.Classes {
		e.classes[cls.Name] = cls
	}
	if in.File != nil {
		e.unitName = source.SanitizeIdent(source.ModuleBaseName(in.File.Path))
	} else {
		e.unitName = "chunk"
	}
	return e
}

// Emit produces the .cpp body and the declaration header. Источник
// генерируется первым: он наполняет пул строк, который нужен хедеру.
func (e *Emitter) Emit() Output {
	src := e.generateSource()
	hdr := e.generateHeader()
	return Output{Source: src, Header: hdr}
}

func (e *Emitter) generateSource() string {
	e.buf = newCW()
	e.scopes = []map[string]struct{}{make(map[string]struct{})}
	e.threadArg = usesGlobalArg(e.in.Chunk)

	w := e.buf
	w.linef("// Auto-generated from %s", e.sourceName())
	w.line("// lua2cpp transpiler")
	w.blank()
	w.linef("#include %q", e.unitName+"_state.hpp")
	w.blank()

	funcs := e.topFunctions()
	// Поднятые функции видны из любого тела, включая соседние функции.
	for _, fn := range funcs {
		e.bind(fn.name)
	}

	if len(funcs) > 0 {
		w.line("// Forward declarations")
		for _, fn := range funcs {
			w.line(e.signature(fn) + ";")
		}
		w.blank()
	}

	for _, cls := range e.in.Classes {
		e.emitClass(cls)
		w.blank()
	}

	for _, fn := range funcs {
		e.emitFunction(fn)
		w.blank()
	}

	e.emitModuleInit(funcs)

	return w.String()
}

func (e *Emitter) sourceName() string {
	if e.in.File != nil {
		return e.in.File.Path
	}
	return e.unitName
}

// topFunc is one top-level function definition lifted out of the module
// body into a standalone C++ function.
type topFunc struct {
	name string
	fn   *ast.FunctionExpr
	stmt ast.Stmt
}

// topFunctions lifts plain top-level function statements. Методы классов
// сюда не попадают: их эмитит emitClass.
func (e *Emitter) topFunctions() []topFunc {
	var out []topFunc
	for _, st := range e.in.Chunk {
		switch n := st.(type) {
		case *ast.FuncDefStmt:
			name, plain := plainFuncName(n)
			if !plain {
				continue
			}
			if e.ownedByClass(st) {
				continue
			}
			out = append(out, topFunc{name: name, fn: n.Func, stmt: st})
		case *ast.LocalAssignStmt:
			if name, fn, ok := localFunction(n); ok {
				out = append(out, topFunc{name: name, fn: fn, stmt: st})
			}
		}
	}
	return out
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

// plainFuncName returns the name of `function foo(...)`. Квалифицированные
// и методные определения остаются в теле модуля.
func plainFuncName(n *ast.FuncDefStmt) (string, bool) {
	if n.Name == nil {
		return "", false
	}
	if n.Name.Func != nil {
		if id, ok := n.Name.Func.(*ast.IdentExpr); ok {
			return id.Value, true
		}
	}
	return "", false
}

// ownedByClass reports whether the top-level statement was consumed by
// class detection and must not be re-emitted in the module body.
func (e *Emitter) ownedByClass(st ast.Stmt) bool {
	switch n := st.(type) {
	case *ast.FuncDefStmt:
		if n.Name == nil {
			return false
		}
		if n.Name.Receiver != nil {
			if id, ok := n.Name.Receiver.(*ast.IdentExpr); ok {
				_, ok := e.classes[id.Value]
				return ok
			}
			return false
		}
		if attr, ok := n.Name.Func.(*ast.AttrGetExpr); ok {
			if id, ok := attr.Object.(*ast.IdentExpr); ok {
				_, owned := e.classes[id.Value]
				return owned
			}
		}
	case *ast.AssignStmt:
		if len(n.Lhs) == 1 {
			if id, ok := n.Lhs[0].(*ast.IdentExpr); ok {
				return e.isClassDecl(id.Value, n.Rhs)
			}
		}
	case *ast.LocalAssignStmt:
		if len(n.Names) == 1 {
			return e.isClassDecl(n.Names[0], n.Exprs)
		}
	}
	return false
}

// isClassDecl matches the two declaration forms the detector recognizes:
// Name = Parent:extend() и Name = { ... функции ... }.
func (e *Emitter) isClassDecl(name string, rhs []ast.Expr) bool {
	if _, ok := e.classes[name]; !ok {
		return false
	}
	if len(rhs) != 1 {
		return false
	}
	switch v := rhs[0].(type) {
	case *ast.FuncCallExpr:
		return v.Receiver != nil
	case *ast.TableExpr:
		return true
	}
	return false
}

// signature renders the C++ signature of a lifted function. Явный
// state-хэндл всегда идёт первым и никогда не шаблонный.
func (e *Emitter) signature(fn topFunc) string {
	sig, _ := e.in.Types.Signatures.Lookup(fn.name)

	ret := "auto"
	if sig != nil && sig.Return.CanSpecialize() {
		ret = sig.Return.Cpp()
	}

	parts := []string{"State* state"}
	for i, p := range fn.fn.ParList.Names {
		decl := "auto& " + Mangle(p)
		if sig != nil && i < len(sig.ParamTypes) && sig.ParamTypes[i].CanSpecialize() {
			decl = sig.ParamTypes[i].Cpp() + " " + Mangle(p)
		}
		parts = append(parts, decl)
	}
	if fn.fn.ParList.HasVargs {
		parts = append(parts, "TABLE arg")
	}

	return ret + " " + Mangle(fn.name) + "(" + strings.Join(parts, ", ") + ")"
}

func (e *Emitter) emitFunction(fn topFunc) {
	w := e.buf
	w.line(e.signature(fn) + " {")
	w.push()

	e.pushScope()
	e.bind(fn.name)
	for _, p := range fn.fn.ParList.Names {
		e.bind(p)
	}
	if fn.fn.ParList.HasVargs {
		e.bind("arg")
	}
	e.stmts(fn.fn.Stmts)
	e.popScope()

	w.pop()
	w.line("}")
}

func (e *Emitter) emitModuleInit(funcs []topFunc) {
	w := e.buf

	params := "State* state"
	if e.threadArg {
		params += ", TABLE arg"
	}

	w.linef("// Module entry point: %s", e.moduleInitName())
	w.linef("luaValue %s(%s) {", e.moduleInitName(), params)
	w.push()

	e.pushScope()
	if e.threadArg {
		e.bind("arg")
	}
	// Поднятые функции и классы уже объявлены выше, в теле модуля они
	// видны как обычные имена.
	for _, fn := range funcs {
		e.bind(fn.name)
	}
	for name := range e.classes {
		e.bind(name)
	}

	returned := false
	for _, st := range e.in.Chunk {
		if e.ownedByClass(st) {
			continue
		}
		switch st.(type) {
		case *ast.FuncDefStmt, *ast.LocalAssignStmt:
			if e.isLifted(st, funcs) {
				continue
			}
		case *ast.ReturnStmt:
			returned = true
		}
		e.stmt(st)
	}
	if !returned {
		w.line("return luaValue();")
	}
	e.popScope()

	w.pop()
	w.line("}")
}

func (e *Emitter) isLifted(st ast.Stmt, funcs []topFunc) bool {
	for _, fn := range funcs {
		if fn.stmt == st {
			return true
		}
	}
	return false
}

func (e *Emitter) moduleInitName() string {
	return e.unitName + "_module_init"
}

// --- emission-time scopes -------------------------------------------------

func (e *Emitter) pushScope() {
	e.scopes = append(e.scopes, make(map[string]struct{}))
}

func (e *Emitter) popScope() {
	e.scopes = e.scopes[:len(e.scopes)-1]
}

func (e *Emitter) bind(name string) {
	e.scopes[len(e.scopes)-1][name] = struct{}{}
}

func (e *Emitter) bound(name string) bool {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if _, ok := e.scopes[i][name]; ok {
			return true
		}
	}
	return false
}

// captured runs fn with a fresh buffer at the given depth and returns the
// produced text. Нужен для лямбд и конструкторов таблиц внутри выражений.
func (e *Emitter) captured(depth int, fn func()) string {
	saved := e.buf
	e.buf = newCW()
	e.buf.depth = depth
	fn()
	out := e.buf.String()
	e.buf = saved
	return strings.TrimRight(out, "\n")
}

// --- code writer ----------------------------------------------------------

type cw struct {
	b     strings.Builder
	depth int
}

func newCW() *cw {
	return &cw{}
}

func (w *cw) push() { w.depth++ }

func (w *cw) pop() {
	if w.depth > 0 {
		w.depth--
	}
}

func (w *cw) line(s string) {
	for i := 0; i < w.depth; i++ {
		w.b.WriteString("    ")
	}
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *cw) linef(format string, args ...any) {
	w.line(fmt.Sprintf(format, args...))
}

func (w *cw) blank() {
	w.b.WriteByte('\n')
}

// raw writes pre-rendered multi-line text as-is.
func (w *cw) raw(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *cw) String() string {
	return w.b.String()
}
