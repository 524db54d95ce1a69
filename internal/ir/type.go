package ir

import "fmt"

// Type is the static result type of an expression.
//
// Type resolution happens upstream of this module; operands arrive with a
// Type already assigned and nothing here re-derives it.
type Type int

const (
	TypeUnknown Type = iota
	TypeNull
	TypeBoolean
	TypeInteger
	TypeString
	TypeArray
	TypeObject
)

var typeNames = map[Type]string{
	TypeUnknown: "unknown",
	TypeNull:    "null",
	TypeBoolean: "boolean",
	TypeInteger: "integer",
	TypeString:  "string",
	TypeArray:   "array",
	TypeObject:  "object",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType converts a type name ("integer", "string", ...) to a Type.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unknown type name %q", name)
}
