package emit

import (
	"strconv"
	"strings"

	"github.com/yuin/gopher-lua/ast"

	"lua2cpp/internal/convention"
	"lua2cpp/internal/stdlib"
)

// expr lowers one expression to C++ text. Аннотации анализа уже сняты:
// здесь только перевод формы в форму.
func (e *Emitter) expr(x ast.Expr) string {
	switch v := x.(type) {
	case *ast.NumberExpr:
		return "NUMBER(" + v.Value + ")"

	case *ast.StringExpr:
		// Каждый литерал уходит в пул и печатается ссылкой на константу.
		return PoolConst(e.in.Pool.Intern(v.Value))

	case *ast.NilExpr:
		return "NIL"

	case *ast.TrueExpr:
		return "true"

	case *ast.FalseExpr:
		return "false"

	case *ast.Comma3Expr:
		return "arg"

	case *ast.IdentExpr:
		return e.ident(v.Value)

	case *ast.AttrGetExpr:
		return e.index(v)

	case *ast.ArithmeticOpExpr:
		return e.arith(v)

	case *ast.StringConcatOpExpr:
		return "l2c::concat(" + e.expr(v.Lhs) + ", " + e.expr(v.Rhs) + ")"

	case *ast.RelationalOpExpr:
		op := v.Operator
		if op == "~=" {
			op = "!="
		}
		return "(" + e.expr(v.Lhs) + " " + op + " " + e.expr(v.Rhs) + ")"

	case *ast.LogicalOpExpr:
		l, r := e.expr(v.Lhs), e.expr(v.Rhs)
		if v.Operator == "and" {
			return "((" + l + ") ? (" + r + ") : (" + l + "))"
		}
		return "((" + l + ") ? (" + l + ") : (" + r + "))"

	case *ast.UnaryMinusOpExpr:
		return "-(" + e.expr(v.Expr) + ")"

	case *ast.UnaryNotOpExpr:
		return "(!" + e.expr(v.Expr) + ")"

	case *ast.UnaryLenOpExpr:
		return "l2c::get_length(" + e.expr(v.Expr) + ")"

	case *ast.FuncCallExpr:
		return e.call(v)

	case *ast.FunctionExpr:
		return e.lambda(v)

	case *ast.TableExpr:
		return e.table(v)
	}
	return "NIL /* unsupported expression */"
}

func (e *Emitter) arith(v *ast.ArithmeticOpExpr) string {
	l, r := e.expr(v.Lhs), e.expr(v.Rhs)
	switch v.Operator {
	case "%":
		return "l2c::mod(" + l + ", " + r + ")"
	case "^":
		return "std::pow(" + l + ", " + r + ")"
	default:
		return "(" + l + " " + v.Operator + " " + r + ")"
	}
}

// ident resolves a bare name. Локальные связывания побеждают, глобальные
// builtin-ы уходят в рантайм-неймспейс l2c.
func (e *Emitter) ident(name string) string {
	if e.inMethod && name == "self" {
		return "(*this)"
	}
	if e.bound(name) {
		return Mangle(name)
	}
	if stdlib.IsGlobalBuiltin(name) {
		return "l2c::" + name
	}
	return Mangle(name)
}

// index lowers qualified access per the convention registry. Динамический
// доступ (вычисляемый ключ или локальная таблица) падает в keyed lookup.
func (e *Emitter) index(v *ast.AttrGetExpr) string {
	parts := convention.PathParts(v)
	if len(parts) >= 2 && !e.bound(parts[0]) {
		root := parts[0]
		if e.inMethod && root == "self" {
			return "this->" + strings.Join(mangleAll(parts[1:]), ".")
		}
		if real, ok := e.in.Calls.ModuleAliases[root]; ok {
			parts[0] = real
			root = real
		}
		if e.in.Conventions.HasConvention(root) {
			return e.in.Conventions.Lower(parts)
		}
	}
	return e.dynamicIndex(v)
}

// dynamicIndex is the Table-convention fallback: value[key].
func (e *Emitter) dynamicIndex(v *ast.AttrGetExpr) string {
	obj := e.expr(v.Object)
	return obj + "[" + e.expr(v.Key) + "]"
}

func mangleAll(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = Mangle(p)
	}
	return out
}

// call lowers calls and method invocations.
func (e *Emitter) call(v *ast.FuncCallExpr) string {
	args := e.args(v.Args)

	// obj:method(...) — сахар двоеточия.
	if v.Receiver != nil {
		recv := e.expr(v.Receiver)
		if fn, ok := e.in.Stdlib.Lookup("string", v.Method); ok {
			// s:upper() и прочие строковые методы идут в плоские имена
			// каталога с ресивером первым аргументом.
			e.sugared[fn.CppName] = fn
			return fn.CppName + "(" + joinArgs(recv, args) + ")"
		}
		if e.inMethod {
			if id, ok := v.Receiver.(*ast.IdentExpr); ok && id.Value == "self" {
				return "this->" + Mangle(v.Method) + "(" + args + ")"
			}
		}
		// Явный ресивер первым параметром, без скрытой диспетчеризации.
		return recv + "." + Mangle(v.Method) + "(" + joinArgs(recv, args) + ")"
	}

	switch callee := v.Func.(type) {
	case *ast.IdentExpr:
		// Пользовательские функции принимают state первым аргументом;
		// конструкторы классов, библиотечные и builtin-вызовы идут без него.
		if _, isClass := e.classes[callee.Value]; !isClass && e.bound(callee.Value) {
			return e.ident(callee.Value) + "(" + joinArgs("state", args) + ")"
		}
		return e.ident(callee.Value) + "(" + args + ")"

	case *ast.AttrGetExpr:
		parts := convention.PathParts(callee)
		if len(parts) == 2 && !e.bound(parts[0]) {
			root := parts[0]
			if real, ok := e.in.Calls.ModuleAliases[root]; ok {
				root = real
			}
			if e.in.Stdlib.IsStandardLibrary(root) {
				if e.in.Stdlib.IsLibraryFunction(root, parts[1]) {
					return e.in.Conventions.Lower([]string{root, parts[1]}) + "(" + args + ")"
				}
				// Неизвестная функция библиотеки: degrade до динамического
				// вызова через таблицу.
				return Mangle(root) + "[" + PoolConst(e.in.Pool.Intern(parts[1])) + "](" + args + ")"
			}
		}
		return e.index(callee) + "(" + args + ")"
	}
	return e.expr(v.Func) + "(" + args + ")"
}

func (e *Emitter) args(exprs []ast.Expr) string {
	out := make([]string, len(exprs))
	for i, a := range exprs {
		out[i] = e.expr(a)
	}
	return strings.Join(out, ", ")
}

func joinArgs(first, rest string) string {
	if rest == "" {
		return first
	}
	return first + ", " + rest
}

// lambda renders an anonymous function. Тип возврата всегда auto: вывод
// по месту использования точнее любой нашей аннотации.
func (e *Emitter) lambda(fn *ast.FunctionExpr) string {
	params := []string{"State* state"}
	for _, p := range fn.ParList.Names {
		params = append(params, "auto& "+Mangle(p))
	}
	if fn.ParList.HasVargs {
		params = append(params, "TABLE arg")
	}

	depth := e.buf.depth
	body := e.captured(depth+1, func() {
		e.pushScope()
		for _, p := range fn.ParList.Names {
			e.bind(p)
		}
		if fn.ParList.HasVargs {
			e.bind("arg")
		}
		e.stmts(fn.Stmts)
		e.popScope()
	})

	head := "[&](" + strings.Join(params, ", ") + ") -> auto {"
	if body == "" {
		return head + "}"
	}
	return head + "\n" + body + "\n" + indentText("}", depth)
}

// table renders a constructor. Пустая таблица — просто NEW_TABLE, иначе
// немедленно вызываемая лямбда, наполняющая временную таблицу.
func (e *Emitter) table(v *ast.TableExpr) string {
	if len(v.Fields) == 0 {
		return "NEW_TABLE"
	}

	depth := e.buf.depth
	body := e.captured(depth+1, func() {
		w := e.buf
		w.line("TABLE t = NEW_TABLE;")
		pos := 0
		for _, f := range v.Fields {
			key := ""
			switch k := f.Key.(type) {
			case nil:
				pos++
				key = "NUMBER(" + strconv.Itoa(pos) + ")"
			case *ast.StringExpr:
				key = PoolConst(e.in.Pool.Intern(k.Value))
			case *ast.NumberExpr:
				key = "NUMBER(" + k.Value + ")"
			default:
				key = e.expr(f.Key)
			}
			w.line("t[" + key + "] = " + e.expr(f.Value) + ";")
		}
		w.line("return t;")
	})

	return "[=]() {\n" + body + "\n" + indentText("}()", depth)
}

func indentText(s string, depth int) string {
	return strings.Repeat("    ", depth) + s
}
