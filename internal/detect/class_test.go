package detect

import (
	"strings"
	"testing"

	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"

	"lua2cpp/internal/diag"
)

func parseChunk(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	chunk, err := parse.Parse(strings.NewReader(src), "test.lua")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return chunk
}

func TestDetectClassWithParent(t *testing.T) {
	bag := diag.NewBag(8)
	d := NewClassDetector(1, diag.BagReporter{Bag: bag})
	classes := d.Detect(parseChunk(t, `
Animal = {}
function Animal:init(name)
	self.name = name
end

Dog = Animal:extend()
function Dog:init(name, breed)
	Animal.init(self, name)
	self.breed = breed
end
function Dog:bark()
	return "woof"
end
`))
	if len(classes) != 2 {
		t.Fatalf("classes = %d, want 2", len(classes))
	}
	if bag.Len() != 0 {
		t.Fatalf("diagnostics = %v, want none", bag.Items())
	}

	dog := classes[1]
	if dog.Name != "Dog" || dog.Parent != "Animal" {
		t.Fatalf("class = %s (parent %s), want Dog (parent Animal)", dog.Name, dog.Parent)
	}
	ctor := dog.Constructor()
	if ctor == nil {
		t.Fatal("Dog constructor missing")
	}
	if ctor.ParentInit == nil {
		t.Fatal("Dog parent-init call not captured")
	}
	if ctor.ParentInit.Parent != "Animal" {
		t.Fatalf("parent = %q, want Animal", ctor.ParentInit.Parent)
	}
	// self уходит в неявный this, остальные аргументы сохраняются.
	if len(ctor.ParentInit.Args) != 1 {
		t.Fatalf("parent-init args = %d, want 1", len(ctor.ParentInit.Args))
	}
	if m := dog.Method("bark"); m == nil || m.IsConstructor {
		t.Fatal("bark should be a plain method")
	}
}

func TestTableLiteralMethods(t *testing.T) {
	d := NewClassDetector(1, nil)
	classes := d.Detect(parseChunk(t, `
Point = {
	init = function(self, x, y)
		self.x = x
		self.y = y
	end,
	norm = function(self)
		return self.x * self.x + self.y * self.y
	end,
}
`))
	if len(classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(classes))
	}
	cls := classes[0]
	if len(cls.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(cls.Methods))
	}
	if cls.Constructor() == nil {
		t.Fatal("constructor missing")
	}
}

func TestClassWithoutConstructorStillDetected(t *testing.T) {
	d := NewClassDetector(1, nil)
	classes := d.Detect(parseChunk(t, `
Util = {}
function Util.clamp(v, lo, hi)
	return v
end
`))
	// Детекция аддитивна: без конструктора класс остаётся агрегатом.
	if len(classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(classes))
	}
	if classes[0].Constructor() != nil {
		t.Fatal("unexpected constructor")
	}
}

func TestPlainTableIsNotAClass(t *testing.T) {
	d := NewClassDetector(1, nil)
	classes := d.Detect(parseChunk(t, `
config = { width = 800, height = 600 }
`))
	if len(classes) != 0 {
		t.Fatalf("classes = %v, want none", classes)
	}
}

func TestMisplacedParentInitIsFlagged(t *testing.T) {
	bag := diag.NewBag(8)
	d := NewClassDetector(1, diag.BagReporter{Bag: bag})
	classes := d.Detect(parseChunk(t, `
Cat = Animal:extend()
function Cat:init(name)
	self.name = name
	Animal.init(self, name)
end
function Cat:rename(name)
	Animal.init(self, name)
end
`))
	if len(classes) != 1 {
		t.Fatalf("classes = %d, want 1", len(classes))
	}
	ctor := classes[0].Constructor()
	if ctor == nil {
		t.Fatal("constructor missing")
	}
	// Не первый стейтмент: не записывается, переводится как есть.
	if ctor.ParentInit != nil {
		t.Fatal("misplaced parent-init must not be captured")
	}
	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("diagnostics = %d, want 2: %v", len(items), items)
	}
	for _, it := range items {
		if it.Code != diag.SemaUnsupportedPattern {
			t.Fatalf("code = %v, want SemaUnsupportedPattern", it.Code)
		}
		if it.Severity != diag.SevWarning {
			t.Fatalf("severity = %v, want warning (non-fatal)", it.Severity)
		}
	}
}
