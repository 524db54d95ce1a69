package criteria

import (
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// BetweenCriteria is expr [NOT] BETWEEN lower AND upper.
type BetweenCriteria struct {
	node
	Expr    expr.Expression
	Lower   expr.Expression
	Upper   expr.Expression
	negated bool
}

func NewBetweenCriteria(e, lower, upper expr.Expression) *BetweenCriteria {
	return &BetweenCriteria{Expr: e, Lower: lower, Upper: upper}
}

func (c *BetweenCriteria) IsNegated() bool     { return c.negated }
func (c *BetweenCriteria) SetNegated(neg bool) { c.negated = neg }
func (c *BetweenCriteria) Negate() error       { c.negated = !c.negated; return nil }

func (c *BetweenCriteria) Clone() expr.Expression {
	return &BetweenCriteria{
		Expr:    expr.Clone(c.Expr),
		Lower:   expr.Clone(c.Lower),
		Upper:   expr.Clone(c.Upper),
		negated: c.negated,
	}
}

func (c *BetweenCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*BetweenCriteria)
	return ok && c.negated == o.negated && expr.Equal(c.Expr, o.Expr) &&
		expr.Equal(c.Lower, o.Lower) && expr.Equal(c.Upper, o.Upper)
}

func (c *BetweenCriteria) Canonical() ir.DObject {
	return canonicalNode("between", ir.DObject{
		"negated": ir.DBool(c.negated),
		"expr":    expr.CanonicalOf(c.Expr),
		"lower":   expr.CanonicalOf(c.Lower),
		"upper":   expr.CanonicalOf(c.Upper),
	})
}

func (c *BetweenCriteria) String() string {
	return operandString(c.Expr) + " " + notWord(c.negated) + "BETWEEN " +
		operandString(c.Lower) + " AND " + operandString(c.Upper)
}

// IsNullCriteria is expr IS [NOT] NULL.
type IsNullCriteria struct {
	node
	Expr    expr.Expression
	negated bool
}

func NewIsNullCriteria(e expr.Expression) *IsNullCriteria {
	return &IsNullCriteria{Expr: e}
}

func (c *IsNullCriteria) IsNegated() bool     { return c.negated }
func (c *IsNullCriteria) SetNegated(neg bool) { c.negated = neg }
func (c *IsNullCriteria) Negate() error       { c.negated = !c.negated; return nil }

func (c *IsNullCriteria) Clone() expr.Expression {
	return &IsNullCriteria{Expr: expr.Clone(c.Expr), negated: c.negated}
}

func (c *IsNullCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*IsNullCriteria)
	return ok && c.negated == o.negated && expr.Equal(c.Expr, o.Expr)
}

func (c *IsNullCriteria) Canonical() ir.DObject {
	return canonicalNode("is_null", ir.DObject{
		"negated": ir.DBool(c.negated),
		"expr":    expr.CanonicalOf(c.Expr),
	})
}

func (c *IsNullCriteria) String() string {
	return operandString(c.Expr) + " IS " + notWord(c.negated) + "NULL"
}

// IsDistinctCriteria is left IS [NOT] DISTINCT FROM right, where both
// operands are whole rows of a group rather than scalar expressions.
type IsDistinctCriteria struct {
	node
	Left    *expr.GroupSymbol
	Right   *expr.GroupSymbol
	negated bool
}

func NewIsDistinctCriteria(left, right *expr.GroupSymbol) *IsDistinctCriteria {
	return &IsDistinctCriteria{Left: left, Right: right}
}

func (c *IsDistinctCriteria) IsNegated() bool     { return c.negated }
func (c *IsDistinctCriteria) SetNegated(neg bool) { c.negated = neg }
func (c *IsDistinctCriteria) Negate() error       { c.negated = !c.negated; return nil }

func (c *IsDistinctCriteria) Clone() expr.Expression {
	return &IsDistinctCriteria{Left: c.Left.Clone(), Right: c.Right.Clone(), negated: c.negated}
}

func (c *IsDistinctCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*IsDistinctCriteria)
	return ok && c.negated == o.negated && c.Left.Equal(o.Left) && c.Right.Equal(o.Right)
}

func (c *IsDistinctCriteria) Canonical() ir.DObject {
	return canonicalNode("is_distinct", ir.DObject{
		"negated": ir.DBool(c.negated),
		"left":    c.Left.Canonical(),
		"right":   c.Right.Canonical(),
	})
}

func (c *IsDistinctCriteria) String() string {
	return c.Left.String() + " IS " + notWord(c.negated) + "DISTINCT FROM " + c.Right.String()
}

// ExistsCriteria is EXISTS (subquery).
//
// ShouldEvaluate marks an uncorrelated subquery that the planner may
// evaluate once, ahead of execution, instead of per row.
type ExistsCriteria struct {
	node
	Subquery       expr.QueryCommand
	ShouldEvaluate bool
	correlationID  string
}

// NewExistsCriteria creates an EXISTS predicate with a fresh correlation id.
func NewExistsCriteria(subquery expr.QueryCommand, opts ...Option) *ExistsCriteria {
	o := buildOptions(opts)
	return &ExistsCriteria{Subquery: subquery, correlationID: o.ids.NextID()}
}

func (c *ExistsCriteria) CorrelationID() string { return c.correlationID }

func (c *ExistsCriteria) Clone() expr.Expression {
	return &ExistsCriteria{
		Subquery:       expr.CloneQuery(c.Subquery),
		ShouldEvaluate: c.ShouldEvaluate,
		correlationID:  c.correlationID,
	}
}

func (c *ExistsCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*ExistsCriteria)
	return ok && expr.EqualQuery(c.Subquery, o.Subquery)
}

func (c *ExistsCriteria) Canonical() ir.DObject {
	return canonicalNode("exists", ir.DObject{
		"subquery": expr.CanonicalQuery(c.Subquery),
	})
}

func (c *ExistsCriteria) String() string {
	return "EXISTS (" + queryString(c.Subquery) + ")"
}

// ExpressionCriteria lifts a boolean-valued expression into a predicate.
type ExpressionCriteria struct {
	node
	Expr expr.Expression
}

func NewExpressionCriteria(e expr.Expression) *ExpressionCriteria {
	return &ExpressionCriteria{Expr: e}
}

func (c *ExpressionCriteria) Clone() expr.Expression {
	return &ExpressionCriteria{Expr: expr.Clone(c.Expr)}
}

func (c *ExpressionCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*ExpressionCriteria)
	return ok && expr.Equal(c.Expr, o.Expr)
}

func (c *ExpressionCriteria) Canonical() ir.DObject {
	return canonicalNode("expression", ir.DObject{
		"expr": expr.CanonicalOf(c.Expr),
	})
}

func (c *ExpressionCriteria) String() string {
	return operandString(c.Expr)
}
