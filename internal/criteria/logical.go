package criteria

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// NotCriteria is NOT (child).
type NotCriteria struct {
	node
	Child Criteria
}

func NewNotCriteria(child Criteria) *NotCriteria {
	return &NotCriteria{Child: child}
}

// Not is shorthand for NewNotCriteria.
func Not(child Criteria) *NotCriteria {
	return NewNotCriteria(child)
}

func (c *NotCriteria) Clone() expr.Expression {
	return &NotCriteria{Child: Clone(c.Child)}
}

func (c *NotCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*NotCriteria)
	return ok && Equal(c.Child, o.Child)
}

func (c *NotCriteria) Canonical() ir.DObject {
	var child ir.Datum = ir.DNull{}
	if c.Child != nil {
		child = c.Child.Canonical()
	}
	return canonicalNode("not", ir.DObject{"child": child})
}

func (c *NotCriteria) String() string {
	if c.Child == nil {
		return "NOT (NULL)"
	}
	return "NOT (" + c.Child.String() + ")"
}

// CompoundCriteria is an AND or OR over one or more children.
// Child order carries no logical meaning but is preserved for display.
type CompoundCriteria struct {
	node
	op       LogicalOp
	children []Criteria
}

// NewCompoundCriteria creates a connective. The operator must be AND or
// OR and at least one child is required.
func NewCompoundCriteria(op LogicalOp, children ...Criteria) (*CompoundCriteria, error) {
	if !op.Valid() {
		return nil, invalidArgument("compound operator", fmt.Sprintf("operator code %d out of range", int(op)))
	}
	if len(children) == 0 {
		return nil, invalidArgument("compound children", "a compound criteria needs at least one child")
	}
	return newCompound(op, slices.Clone(children)), nil
}

// newCompound takes ownership of children without validation.
func newCompound(op LogicalOp, children []Criteria) *CompoundCriteria {
	return &CompoundCriteria{op: op, children: children}
}

// And builds an AND of its arguments.
func And(first Criteria, rest ...Criteria) *CompoundCriteria {
	return newCompound(OpAND, append([]Criteria{first}, rest...))
}

// Or builds an OR of its arguments.
func Or(first Criteria, rest ...Criteria) *CompoundCriteria {
	return newCompound(OpOR, append([]Criteria{first}, rest...))
}

func (c *CompoundCriteria) Operator() LogicalOp { return c.op }

// SetOperator changes the connective in place. On error the node is
// unchanged.
func (c *CompoundCriteria) SetOperator(op LogicalOp) error {
	if !op.Valid() {
		return invalidArgument("compound operator", fmt.Sprintf("operator code %d out of range", int(op)))
	}
	c.op = op
	return nil
}

// Children returns the child list. Callers must not modify the slice;
// use the child-list methods.
func (c *CompoundCriteria) Children() []Criteria { return c.children }

func (c *CompoundCriteria) ChildCount() int { return len(c.children) }

func (c *CompoundCriteria) Child(i int) Criteria { return c.children[i] }

// AddChild appends a child.
func (c *CompoundCriteria) AddChild(child Criteria) {
	c.children = append(c.children, child)
}

// SetChild replaces the child at index i.
func (c *CompoundCriteria) SetChild(i int, child Criteria) {
	c.children[i] = child
}

// RemoveChild removes the child at index i. Removing the last remaining
// child is rejected.
func (c *CompoundCriteria) RemoveChild(i int) error {
	if len(c.children) == 1 {
		return invalidArgument("compound children", "cannot remove the only child")
	}
	if i < 0 || i >= len(c.children) {
		return invalidArgument("compound children", fmt.Sprintf("child index %d out of range", i))
	}
	c.children = slices.Delete(c.children, i, i+1)
	return nil
}

// SetChildren replaces the whole child list.
func (c *CompoundCriteria) SetChildren(children []Criteria) error {
	if len(children) == 0 {
		return invalidArgument("compound children", "a compound criteria needs at least one child")
	}
	c.children = slices.Clone(children)
	return nil
}

func (c *CompoundCriteria) Clone() expr.Expression {
	return newCompound(c.op, CloneAll(c.children))
}

func (c *CompoundCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*CompoundCriteria)
	return ok && c.op == o.op && equalChildren(c.children, o.children)
}

func (c *CompoundCriteria) Canonical() ir.DObject {
	return canonicalNode("compound", ir.DObject{
		"op":       ir.DString(c.op.String()),
		"children": canonicalChildren(c.children),
	})
}

// String joins the children with the operator, parenthesizing nested
// connectives: (a AND b) OR c.
func (c *CompoundCriteria) String() string {
	parts := make([]string, len(c.children))
	for i, child := range c.children {
		switch child.(type) {
		case *CompoundCriteria:
			parts[i] = "(" + child.String() + ")"
		case nil:
			parts[i] = "NULL"
		default:
			parts[i] = child.String()
		}
	}
	return strings.Join(parts, " "+c.op.String()+" ")
}
