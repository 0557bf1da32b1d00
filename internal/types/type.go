// Package types models the coarse static classification assigned to every
// Lua binding during analysis. Inference is best-effort: Unknown is a normal
// outcome, not an error, and every consumer handles it.
package types

import "strings"

// Kind enumerates value categories of Lua 5.4.
type Kind uint8

const (
	Unknown Kind = iota
	String
	Number
	Function
	Boolean
	Table
	Any
	Variant // std::variant<...> для динамических значений
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Function:
		return "function"
	case Boolean:
		return "boolean"
	case Table:
		return "table"
	case Any:
		return "any"
	case Variant:
		return "variant"
	default:
		return "unknown"
	}
}

// Type is a binding's resolved classification.
// Subtypes заполняются только для Variant.
type Type struct {
	Kind     Kind
	Constant bool
	Subtypes []Type
}

// Of is a shortcut for a plain type of the given kind.
func Of(k Kind) Type {
	return Type{Kind: k}
}

// VariantOf builds a Variant over the given member types.
func VariantOf(subtypes ...Type) Type {
	return Type{Kind: Variant, Subtypes: subtypes}
}

// CanSpecialize reports whether a concrete C++ type exists for the binding.
// Unknown и Variant остаются на динамическом представлении.
func (t Type) CanSpecialize() bool {
	return t.Kind != Unknown && t.Kind != Variant
}

// Cpp maps the type onto the C++ runtime representation.
func (t Type) Cpp() string {
	switch t.Kind {
	case Boolean:
		return "bool"
	case Number:
		return "double"
	case String:
		return "std::string"
	case Table:
		return "TABLE"
	case Variant:
		if len(t.Subtypes) == 0 {
			return "std::variant<>"
		}
		inner := make([]string, len(t.Subtypes))
		for i, sub := range t.Subtypes {
			inner[i] = sub.Cpp()
		}
		return "std::variant<" + strings.Join(inner, ", ") + ">"
	case Any:
		return "luaValue"
	default:
		// Unknown и Function превращаются в auto: конкретику
		// восстановит вывод типов на стороне C++.
		return "auto"
	}
}
