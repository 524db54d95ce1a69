package criteria

import (
	"fmt"

	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// CompareCriteria is a binary comparison: left op right.
type CompareCriteria struct {
	node
	Left  expr.Expression
	Right expr.Expression
	op    CompareOp
}

// NewCompareCriteria creates a comparison. An undefined operator is an
// invalid-argument error.
func NewCompareCriteria(left expr.Expression, op CompareOp, right expr.Expression) (*CompareCriteria, error) {
	if !op.Valid() {
		return nil, invalidArgument("compare operator", fmt.Sprintf("operator code %d out of range", int(op)))
	}
	return &CompareCriteria{Left: left, Right: right, op: op}, nil
}

// Compare is NewCompareCriteria for operators known to be valid.
// It panics on an undefined operator.
func Compare(left expr.Expression, op CompareOp, right expr.Expression) *CompareCriteria {
	c, err := NewCompareCriteria(left, op, right)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *CompareCriteria) Operator() CompareOp { return c.op }

// SetOperator changes the operator in place. On error the node is unchanged.
func (c *CompareCriteria) SetOperator(op CompareOp) error {
	if !op.Valid() {
		return invalidArgument("compare operator", fmt.Sprintf("operator code %d out of range", int(op)))
	}
	c.op = op
	return nil
}

// Negate replaces the operator with its inverse.
func (c *CompareCriteria) Negate() error {
	c.op = c.op.Inverse()
	return nil
}

func (c *CompareCriteria) Clone() expr.Expression {
	return &CompareCriteria{Left: expr.Clone(c.Left), Right: expr.Clone(c.Right), op: c.op}
}

func (c *CompareCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*CompareCriteria)
	return ok && c.op == o.op && expr.Equal(c.Left, o.Left) && expr.Equal(c.Right, o.Right)
}

func (c *CompareCriteria) Canonical() ir.DObject {
	return canonicalNode("compare", ir.DObject{
		"op":    ir.DString(c.op.String()),
		"left":  expr.CanonicalOf(c.Left),
		"right": expr.CanonicalOf(c.Right),
	})
}

func (c *CompareCriteria) String() string {
	return operandString(c.Left) + " " + c.op.String() + " " + operandString(c.Right)
}

// SubqueryCompareCriteria compares an operand against the rows of a
// subquery, optionally quantified: x > ALL (SELECT ...).
type SubqueryCompareCriteria struct {
	node
	Left     expr.Expression
	Subquery expr.QueryCommand

	op            CompareOp
	quantifier    Quantifier
	correlationID string
}

// NewSubqueryCompareCriteria creates a quantified comparison and assigns
// it a fresh correlation id.
func NewSubqueryCompareCriteria(left expr.Expression, op CompareOp, subquery expr.QueryCommand, quantifier Quantifier, opts ...Option) (*SubqueryCompareCriteria, error) {
	if !op.Valid() {
		return nil, invalidArgument("compare operator", fmt.Sprintf("operator code %d out of range", int(op)))
	}
	if !quantifier.Valid() {
		return nil, invalidArgument("quantifier", fmt.Sprintf("quantifier code %d out of range", int(quantifier)))
	}
	o := buildOptions(opts)
	return &SubqueryCompareCriteria{
		Left:          left,
		Subquery:      subquery,
		op:            op,
		quantifier:    quantifier,
		correlationID: o.ids.NextID(),
	}, nil
}

func (c *SubqueryCompareCriteria) Operator() CompareOp    { return c.op }
func (c *SubqueryCompareCriteria) Quantifier() Quantifier { return c.quantifier }
func (c *SubqueryCompareCriteria) CorrelationID() string  { return c.correlationID }

// SetOperator changes the operator in place. On error the node is unchanged.
func (c *SubqueryCompareCriteria) SetOperator(op CompareOp) error {
	if !op.Valid() {
		return invalidArgument("compare operator", fmt.Sprintf("operator code %d out of range", int(op)))
	}
	c.op = op
	return nil
}

// SetQuantifier changes the quantifier in place.
func (c *SubqueryCompareCriteria) SetQuantifier(q Quantifier) error {
	if !q.Valid() {
		return invalidArgument("quantifier", fmt.Sprintf("quantifier code %d out of range", int(q)))
	}
	c.quantifier = q
	return nil
}

// Negate inverts the operator and swaps ALL and SOME.
// NOT (x > ALL q) is x <= SOME q. A NONE quantifier is left as is.
func (c *SubqueryCompareCriteria) Negate() error {
	c.op = c.op.Inverse()
	switch c.quantifier {
	case QuantAll:
		c.quantifier = QuantSome
	case QuantSome:
		c.quantifier = QuantAll
	}
	return nil
}

func (c *SubqueryCompareCriteria) Clone() expr.Expression {
	return &SubqueryCompareCriteria{
		Left:          expr.Clone(c.Left),
		Subquery:      expr.CloneQuery(c.Subquery),
		op:            c.op,
		quantifier:    c.quantifier,
		correlationID: c.correlationID,
	}
}

func (c *SubqueryCompareCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*SubqueryCompareCriteria)
	return ok && c.op == o.op && c.quantifier == o.quantifier &&
		expr.Equal(c.Left, o.Left) && expr.EqualQuery(c.Subquery, o.Subquery)
}

func (c *SubqueryCompareCriteria) Canonical() ir.DObject {
	return canonicalNode("subquery_compare", ir.DObject{
		"op":         ir.DString(c.op.String()),
		"quantifier": ir.DString(c.quantifier.String()),
		"left":       expr.CanonicalOf(c.Left),
		"subquery":   expr.CanonicalQuery(c.Subquery),
	})
}

func (c *SubqueryCompareCriteria) String() string {
	s := operandString(c.Left) + " " + c.op.String() + " "
	if c.quantifier != QuantNone {
		s += c.quantifier.String() + " "
	}
	return s + "(" + queryString(c.Subquery) + ")"
}
