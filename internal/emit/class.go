package emit

import (
	"strings"

	"lua2cpp/internal/detect"
)

// emitClass renders one detected class as a nominal C++ type: init
// становится конструктором, остальные методы — member-функциями.
func (e *Emitter) emitClass(cls *detect.Class) {
	w := e.buf
	if cls.Parent != "" {
		w.linef("class %s : public %s {", Mangle(cls.Name), Mangle(cls.Parent))
	} else {
		w.linef("class %s {", Mangle(cls.Name))
	}
	w.line("public:")
	w.push()

	for _, m := range cls.Methods {
		if m.IsConstructor {
			e.emitConstructor(cls, m)
		} else {
			e.emitMethod(m)
		}
	}

	w.pop()
	w.line("};")
}

func (e *Emitter) emitConstructor(cls *detect.Class, m *detect.Method) {
	w := e.buf
	w.linef("%s(%s) {", Mangle(cls.Name), methodParams(m))
	w.push()

	e.enterMethod(m)
	for i, st := range m.Func.Stmts {
		if i == 0 && m.ParentInit != nil {
			// Делегирование родительскому init: ресивер уходит в неявный
			// this, позиционно self не передаётся.
			w.line(Mangle(m.ParentInit.Parent) + "::" + Mangle(detect.DefaultInitName) + "(" + e.args(m.ParentInit.Args) + ");")
			continue
		}
		e.stmt(st)
	}
	e.leaveMethod()

	w.pop()
	w.line("}")
}

func (e *Emitter) emitMethod(m *detect.Method) {
	w := e.buf
	w.linef("void %s(%s) {", Mangle(m.Name), methodParams(m))
	w.push()

	e.enterMethod(m)
	e.stmts(m.Func.Stmts)
	e.leaveMethod()

	w.pop()
	w.line("}")
}

// methodParams renders the parameter list without the Lua self slot.
func methodParams(m *detect.Method) string {
	var parts []string
	for _, p := range m.Func.ParList.Names {
		if p == "self" {
			continue
		}
		parts = append(parts, "auto& "+Mangle(p))
	}
	return strings.Join(parts, ", ")
}

func (e *Emitter) enterMethod(m *detect.Method) {
	e.inMethod = true
	e.pushScope()
	for _, p := range m.Func.ParList.Names {
		if p == "self" {
			continue
		}
		e.bind(p)
	}
}

func (e *Emitter) leaveMethod() {
	e.popScope()
	e.inMethod = false
}
