// Package collect classifies call sites in a parsed chunk: глобальные
// builtin-вызовы, вызовы функций стандартной библиотеки и всё остальное
// (пользовательские вызовы). Результат питает резолвер типов и эмиттер.
package collect

import (
	"sort"

	"github.com/yuin/gopher-lua/ast"

	"lua2cpp/internal/convention"
	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
	"lua2cpp/internal/stdlib"
)

// Call is one classified call site. Module пуст для глобальных builtin.
// Записи создаются один раз и дальше не меняются.
type Call struct {
	Module string
	Name   string
	Line   int
}

// Result holds everything the collector learned about one chunk.
type Result struct {
	Library []Call
	Globals []Call

	// ModuleAliases: local m = math -> {"m": "math"}.
	// Вызовы через алиас резолвятся в исходный модуль.
	ModuleAliases map[string]string

	// FuncAliases: local f = print -> {"f": "print"},
	// local s = math.sqrt -> {"s": "math.sqrt"}. Вызов через такой
	// алиас не считается библиотечным вызовом, сам алиас отслеживается.
	FuncAliases map[string]string
}

// UsedModules returns the sorted set of library modules with at least one call.
func (r *Result) UsedModules() []string {
	seen := make(map[string]struct{})
	for _, c := range r.Library {
		seen[c.Module] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// UsedGlobals returns the sorted set of called global builtins.
func (r *Result) UsedGlobals() []string {
	seen := make(map[string]struct{})
	for _, c := range r.Globals {
		seen[c.Name] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Collector walks the AST of one chunk. Состояние живёт только на время
// одного обхода, между файлами ничего не переиспользуется.
type Collector struct {
	registry *stdlib.Registry
	file     source.FileID
	reporter diag.Reporter

	result Result

	// Имена, перекрытые обычными локальными значениями. Перекрытый
	// builtin больше не классифицируется до конца обхода.
	shadowed map[string]struct{}
}

func NewCollector(registry *stdlib.Registry, file source.FileID, reporter diag.Reporter) *Collector {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	return &Collector{
		registry: registry,
		file:     file,
		reporter: reporter,
		result: Result{
			ModuleAliases: make(map[string]string),
			FuncAliases:   make(map[string]string),
		},
		shadowed: make(map[string]struct{}),
	}
}

// Collect walks the chunk and returns the classification result.
func (c *Collector) Collect(chunk []ast.Stmt) *Result {
	c.walkStmts(chunk)
	return &c.result
}

func (c *Collector) walkStmts(stmts []ast.Stmt) {
	for _, st := range stmts {
		c.walkStmt(st)
	}
}

func (c *Collector) walkStmt(st ast.Stmt) {
	switch n := st.(type) {
	case *ast.LocalAssignStmt:
		c.recordBindings(n.Names, n.Exprs)
		c.walkExprs(n.Exprs)
	case *ast.AssignStmt:
		names := make([]string, 0, len(n.Lhs))
		for _, lhs := range n.Lhs {
			if ident, ok := lhs.(*ast.IdentExpr); ok {
				names = append(names, ident.Value)
			} else {
				c.walkExpr(lhs)
				names = append(names, "")
			}
		}
		c.recordBindings(names, n.Rhs)
		c.walkExprs(n.Rhs)
	case *ast.FuncCallStmt:
		c.walkExpr(n.Expr)
	case *ast.FuncDefStmt:
		if n.Name != nil && n.Name.Func != nil {
			// Определение функции перекрывает одноимённый builtin.
			if ident, ok := n.Name.Func.(*ast.IdentExpr); ok {
				c.shadow(ident.Value)
			}
		}
		c.walkExpr(n.Func)
	case *ast.ReturnStmt:
		c.walkExprs(n.Exprs)
	case *ast.IfStmt:
		c.walkExpr(n.Condition)
		c.walkStmts(n.Then)
		c.walkStmts(n.Else)
	case *ast.WhileStmt:
		c.walkExpr(n.Condition)
		c.walkStmts(n.Stmts)
	case *ast.RepeatStmt:
		c.walkStmts(n.Stmts)
		c.walkExpr(n.Condition)
	case *ast.NumberForStmt:
		c.walkExpr(n.Init)
		c.walkExpr(n.Limit)
		if n.Step != nil {
			c.walkExpr(n.Step)
		}
		c.walkStmts(n.Stmts)
	case *ast.GenericForStmt:
		c.walkExprs(n.Exprs)
		c.walkStmts(n.Stmts)
	case *ast.DoBlockStmt:
		c.walkStmts(n.Stmts)
	}
}

// recordBindings tracks aliases introduced by assignments.
// names может содержать "" для не-идентификаторных lhs.
func (c *Collector) recordBindings(names []string, exprs []ast.Expr) {
	for i, name := range names {
		if name == "" {
			continue
		}
		if i >= len(exprs) {
			c.shadow(name)
			continue
		}
		switch rhs := exprs[i].(type) {
		case *ast.IdentExpr:
			if c.registry.IsStandardLibrary(rhs.Value) && !c.isShadowed(rhs.Value) {
				c.result.ModuleAliases[name] = rhs.Value
				continue
			}
			if stdlib.IsGlobalBuiltin(rhs.Value) && !c.isShadowed(rhs.Value) {
				c.result.FuncAliases[name] = rhs.Value
				continue
			}
			c.shadow(name)
		case *ast.AttrGetExpr:
			if module, member, ok := c.libraryRef(rhs); ok {
				c.result.FuncAliases[name] = module + "." + member
				continue
			}
			c.shadow(name)
		default:
			c.shadow(name)
		}
	}
}

func (c *Collector) shadow(name string) {
	c.shadowed[name] = struct{}{}
	delete(c.result.ModuleAliases, name)
	delete(c.result.FuncAliases, name)
}

func (c *Collector) isShadowed(name string) bool {
	_, ok := c.shadowed[name]
	return ok
}

// libraryRef resolves a two-part qualified reference to (module, member).
// Корень цепочки может быть алиасом модуля.
func (c *Collector) libraryRef(expr *ast.AttrGetExpr) (string, string, bool) {
	parts := convention.PathParts(expr)
	if len(parts) != 2 {
		return "", "", false
	}
	root := parts[0]
	if aliased, ok := c.result.ModuleAliases[root]; ok {
		root = aliased
	} else if c.isShadowed(root) {
		return "", "", false
	}
	if !c.registry.IsStandardLibrary(root) {
		return "", "", false
	}
	return root, parts[1], true
}

func (c *Collector) walkExprs(exprs []ast.Expr) {
	for _, e := range exprs {
		c.walkExpr(e)
	}
}

func (c *Collector) walkExpr(expr ast.Expr) {
	switch n := expr.(type) {
	case *ast.FuncCallExpr:
		c.classifyCall(n)
	case *ast.AttrGetExpr:
		// Индекс сам по себе не вызов, внутрь спускаемся как обычно.
		c.walkExpr(n.Object)
		c.walkExpr(n.Key)
	case *ast.TableExpr:
		for _, field := range n.Fields {
			if field.Key != nil {
				c.walkExpr(field.Key)
			}
			c.walkExpr(field.Value)
		}
	case *ast.FunctionExpr:
		if n.ParList != nil {
			for _, p := range n.ParList.Names {
				// Параметр перекрывает builtin в теле функции.
				if stdlib.IsGlobalBuiltin(p) || c.registry.IsStandardLibrary(p) {
					c.shadow(p)
				}
			}
		}
		c.walkStmts(n.Stmts)
	case *ast.LogicalOpExpr:
		c.walkExpr(n.Lhs)
		c.walkExpr(n.Rhs)
	case *ast.RelationalOpExpr:
		c.walkExpr(n.Lhs)
		c.walkExpr(n.Rhs)
	case *ast.ArithmeticOpExpr:
		c.walkExpr(n.Lhs)
		c.walkExpr(n.Rhs)
	case *ast.StringConcatOpExpr:
		c.walkExpr(n.Lhs)
		c.walkExpr(n.Rhs)
	case *ast.UnaryMinusOpExpr:
		c.walkExpr(n.Expr)
	case *ast.UnaryNotOpExpr:
		c.walkExpr(n.Expr)
	case *ast.UnaryLenOpExpr:
		c.walkExpr(n.Expr)
	}
}

// classifyCall records one call site. В вызывающее выражение
// классифицированного вызова мы не спускаемся, чтобы не посчитать
// библиотечную ссылку дважды.
func (c *Collector) classifyCall(call *ast.FuncCallExpr) {
	// obj:method(...) — ресивер почти никогда не библиотечный модуль,
	// метод-вызовы из классификации исключены.
	if call.Receiver != nil {
		c.walkExpr(call.Receiver)
		c.walkExprs(call.Args)
		return
	}

	switch callee := call.Func.(type) {
	case *ast.IdentExpr:
		name := callee.Value
		if _, ok := c.result.FuncAliases[name]; ok {
			// Вызов через алиас: сам алиас уже учтён при привязке.
			c.walkExprs(call.Args)
			return
		}
		if stdlib.IsGlobalBuiltin(name) && !c.isShadowed(name) {
			c.result.Globals = append(c.result.Globals, Call{
				Name: name,
				Line: callee.Line(),
			})
		}
		c.walkExprs(call.Args)
	case *ast.AttrGetExpr:
		if module, member, ok := c.libraryRef(callee); ok {
			c.result.Library = append(c.result.Library, Call{
				Module: module,
				Name:   member,
				Line:   callee.Line(),
			})
			if _, known := c.registry.Lookup(module, member); !known {
				c.reporter.Report(
					diag.SemaUnresolvedLibraryFunction,
					diag.SevWarning,
					source.At(c.file, callee.Line()),
					"library function "+module+"."+member+" is not in the catalogue",
					"", nil,
				)
			}
			c.walkExprs(call.Args)
			return
		}
		c.walkExpr(callee)
		c.walkExprs(call.Args)
	default:
		c.walkExpr(call.Func)
		c.walkExprs(call.Args)
	}
}
