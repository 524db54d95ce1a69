package expr

import (
	"strings"

	"github.com/roach88/critnf/internal/ir"
)

// Constant is a literal value.
// The datum is treated as immutable; Clone still copies composite datums so
// that no slice or map is shared between copies.
type Constant struct {
	Value ir.Datum
	typ   ir.Type
}

// NewConstant creates a constant whose type is the datum's own type.
func NewConstant(v ir.Datum) *Constant {
	if v == nil {
		v = ir.DNull{}
	}
	return &Constant{Value: v, typ: v.Type()}
}

// NewTypedConstant creates a constant with an explicit type, e.g. a NULL
// that was resolved to integer.
func NewTypedConstant(v ir.Datum, typ ir.Type) *Constant {
	if v == nil {
		v = ir.DNull{}
	}
	return &Constant{Value: v, typ: typ}
}

func (c *Constant) Type() ir.Type { return c.typ }

// IsNull reports whether the constant is the NULL literal.
func (c *Constant) IsNull() bool {
	_, ok := c.Value.(ir.DNull)
	return ok
}

func (c *Constant) Clone() Expression {
	return &Constant{Value: cloneDatum(c.Value), typ: c.typ}
}

func (c *Constant) Equal(other Expression) bool {
	o, ok := other.(*Constant)
	return ok && c.typ == o.typ && ir.Equal(c.Value, o.Value)
}

func (c *Constant) Canonical() ir.DObject {
	return ir.DObject{
		"kind":  ir.DString("constant"),
		"type":  ir.DString(c.typ.String()),
		"value": c.Value,
	}
}

func (c *Constant) String() string { return ir.Format(c.Value) }

func cloneDatum(d ir.Datum) ir.Datum {
	switch v := d.(type) {
	case ir.DArray:
		out := make(ir.DArray, len(v))
		for i, elem := range v {
			out[i] = cloneDatum(elem)
		}
		return out
	case ir.DObject:
		out := make(ir.DObject, len(v))
		for k, elem := range v {
			out[k] = cloneDatum(elem)
		}
		return out
	default:
		return d
	}
}

// Column is a resolved reference to a column (element symbol).
// Names compare case-insensitively, as SQL identifiers do.
type Column struct {
	Group string // Owning table or alias, empty when unqualified
	Name  string
	Typ   ir.Type
}

// NewColumn creates an unqualified column reference.
func NewColumn(name string, typ ir.Type) *Column {
	return &Column{Name: name, Typ: typ}
}

func (c *Column) Type() ir.Type { return c.Typ }

func (c *Column) Clone() Expression {
	clone := *c
	return &clone
}

func (c *Column) Equal(other Expression) bool {
	o, ok := other.(*Column)
	return ok && strings.EqualFold(c.Group, o.Group) && strings.EqualFold(c.Name, o.Name)
}

func (c *Column) Canonical() ir.DObject {
	return ir.DObject{
		"kind":  ir.DString("column"),
		"group": ir.DString(strings.ToLower(c.Group)),
		"name":  ir.DString(strings.ToLower(c.Name)),
	}
}

func (c *Column) String() string {
	if c.Group == "" {
		return c.Name
	}
	return c.Group + "." + c.Name
}

// Function is a scalar function call over operand expressions.
type Function struct {
	Name string
	Args []Expression
	Typ  ir.Type
}

// NewFunction creates a function call node.
func NewFunction(name string, typ ir.Type, args ...Expression) *Function {
	return &Function{Name: name, Args: args, Typ: typ}
}

func (f *Function) Type() ir.Type { return f.Typ }

func (f *Function) Clone() Expression {
	return &Function{Name: f.Name, Args: CloneAll(f.Args), Typ: f.Typ}
}

func (f *Function) Equal(other Expression) bool {
	o, ok := other.(*Function)
	return ok && strings.EqualFold(f.Name, o.Name) && EqualAll(f.Args, o.Args)
}

func (f *Function) Canonical() ir.DObject {
	return ir.DObject{
		"kind": ir.DString("function"),
		"name": ir.DString(strings.ToLower(f.Name)),
		"args": CanonicalList(f.Args),
	}
}

func (f *Function) String() string {
	return f.Name + "(" + Join(f.Args) + ")"
}

// GroupSymbol references a relation (a whole row) rather than a scalar.
// IS DISTINCT FROM compares two of these.
type GroupSymbol struct {
	Name       string
	Definition string // Underlying table when Name is an alias
}

// NewGroupSymbol creates a group reference.
func NewGroupSymbol(name string) *GroupSymbol {
	return &GroupSymbol{Name: name}
}

func (g *GroupSymbol) Clone() *GroupSymbol {
	if g == nil {
		return nil
	}
	clone := *g
	return &clone
}

func (g *GroupSymbol) Equal(other *GroupSymbol) bool {
	if g == nil || other == nil {
		return g == nil && other == nil
	}
	return strings.EqualFold(g.Name, other.Name) && strings.EqualFold(g.Definition, other.Definition)
}

func (g *GroupSymbol) Canonical() ir.Datum {
	if g == nil {
		return ir.DNull{}
	}
	return ir.DObject{
		"kind":       ir.DString("group"),
		"name":       ir.DString(strings.ToLower(g.Name)),
		"definition": ir.DString(strings.ToLower(g.Definition)),
	}
}

func (g *GroupSymbol) String() string {
	if g == nil {
		return "NULL"
	}
	return g.Name
}
