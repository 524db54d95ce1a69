package criteria

import (
	"slices"

	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// SetCriteria is expr [NOT] IN (v1, v2, ...).
//
// When every value is a constant the list is a set: duplicates are
// dropped (first occurrence wins, so display order is stable) and
// equality ignores order. Otherwise it is an ordered sequence.
type SetCriteria struct {
	node
	Expr         expr.Expression
	values       []expr.Expression
	allConstants bool
	negated      bool
}

// NewSetCriteria creates an IN list. The list is treated as a set when
// every value is a *expr.Constant.
func NewSetCriteria(e expr.Expression, values ...expr.Expression) *SetCriteria {
	c := &SetCriteria{Expr: e}
	c.SetValues(values, allConstantValues(values))
	return c
}

func allConstantValues(values []expr.Expression) bool {
	for _, v := range values {
		if _, ok := v.(*expr.Constant); !ok {
			return false
		}
	}
	return true
}

// SetValues replaces the value list. With allConstants set the list is
// de-duplicated by structural fingerprint.
func (c *SetCriteria) SetValues(values []expr.Expression, allConstants bool) {
	c.allConstants = allConstants
	if !allConstants {
		c.values = slices.Clone(values)
		return
	}
	seen := make(map[string]struct{}, len(values))
	c.values = make([]expr.Expression, 0, len(values))
	for _, v := range values {
		fp := expr.Fingerprint(v)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		c.values = append(c.values, v)
	}
}

// Values returns the value list. Callers must not modify it; use
// SetValues.
func (c *SetCriteria) Values() []expr.Expression { return c.values }

func (c *SetCriteria) AllConstants() bool  { return c.allConstants }
func (c *SetCriteria) IsNegated() bool     { return c.negated }
func (c *SetCriteria) SetNegated(neg bool) { c.negated = neg }
func (c *SetCriteria) Negate() error       { c.negated = !c.negated; return nil }

// Clone copies the receiver, values included.
func (c *SetCriteria) Clone() expr.Expression {
	return &SetCriteria{
		Expr:         expr.Clone(c.Expr),
		values:       expr.CloneAll(c.values),
		allConstants: c.allConstants,
		negated:      c.negated,
	}
}

func (c *SetCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*SetCriteria)
	if !ok || c.negated != o.negated || !expr.Equal(c.Expr, o.Expr) {
		return false
	}
	if c.allConstants && o.allConstants {
		return sameValueSet(c.values, o.values)
	}
	return expr.EqualAll(c.values, o.values)
}

func sameValueSet(a, b []expr.Expression) bool {
	if len(a) != len(b) {
		return false
	}
	fps := valueFingerprints(a)
	for _, v := range b {
		if _, ok := fps[expr.Fingerprint(v)]; !ok {
			return false
		}
	}
	return true
}

func valueFingerprints(list []expr.Expression) map[string]struct{} {
	out := make(map[string]struct{}, len(list))
	for _, v := range list {
		out[expr.Fingerprint(v)] = struct{}{}
	}
	return out
}

// Canonical lists constant sets in fingerprint order so that equal sets
// share a canonical form regardless of insertion order.
func (c *SetCriteria) Canonical() ir.DObject {
	var values ir.DArray
	if c.allConstants {
		sorted := slices.Clone(c.values)
		slices.SortStableFunc(sorted, func(a, b expr.Expression) int {
			fa, fb := expr.Fingerprint(a), expr.Fingerprint(b)
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		})
		values = expr.CanonicalList(sorted)
	} else {
		values = expr.CanonicalList(c.values)
	}
	return canonicalNode("set", ir.DObject{
		"negated": ir.DBool(c.negated),
		"expr":    expr.CanonicalOf(c.Expr),
		"values":  values,
	})
}

func (c *SetCriteria) String() string {
	return operandString(c.Expr) + " " + notWord(c.negated) + "IN (" + expr.Join(c.values) + ")"
}

// SubquerySetCriteria is expr [NOT] IN (subquery).
type SubquerySetCriteria struct {
	node
	Expr          expr.Expression
	Subquery      expr.QueryCommand
	negated       bool
	correlationID string
}

// NewSubquerySetCriteria creates an IN-subquery predicate with a fresh
// correlation id.
func NewSubquerySetCriteria(e expr.Expression, subquery expr.QueryCommand, opts ...Option) *SubquerySetCriteria {
	o := buildOptions(opts)
	return &SubquerySetCriteria{Expr: e, Subquery: subquery, correlationID: o.ids.NextID()}
}

func (c *SubquerySetCriteria) CorrelationID() string { return c.correlationID }
func (c *SubquerySetCriteria) IsNegated() bool       { return c.negated }
func (c *SubquerySetCriteria) SetNegated(neg bool)   { c.negated = neg }
func (c *SubquerySetCriteria) Negate() error         { c.negated = !c.negated; return nil }

func (c *SubquerySetCriteria) Clone() expr.Expression {
	return &SubquerySetCriteria{
		Expr:          expr.Clone(c.Expr),
		Subquery:      expr.CloneQuery(c.Subquery),
		negated:       c.negated,
		correlationID: c.correlationID,
	}
}

func (c *SubquerySetCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*SubquerySetCriteria)
	return ok && c.negated == o.negated && expr.Equal(c.Expr, o.Expr) &&
		expr.EqualQuery(c.Subquery, o.Subquery)
}

func (c *SubquerySetCriteria) Canonical() ir.DObject {
	return canonicalNode("subquery_set", ir.DObject{
		"negated":  ir.DBool(c.negated),
		"expr":     expr.CanonicalOf(c.Expr),
		"subquery": expr.CanonicalQuery(c.Subquery),
	})
}

func (c *SubquerySetCriteria) String() string {
	return operandString(c.Expr) + " " + notWord(c.negated) + "IN (" + queryString(c.Subquery) + ")"
}

// DependentSetCriteria is expr IN (values produced elsewhere in the plan).
//
// ValueExpr is evaluated against each row of the deferred value source
// named by the correlation id; a dependent-join planner fills that source
// before execution. A dependent set cannot be negated.
type DependentSetCriteria struct {
	node
	Expr          expr.Expression
	ValueExpr     expr.Expression
	correlationID string
}

// NewDependentSetCriteria creates a dependent set bound to the value
// source named id.
func NewDependentSetCriteria(e, valueExpr expr.Expression, id string) *DependentSetCriteria {
	return &DependentSetCriteria{Expr: e, ValueExpr: valueExpr, correlationID: id}
}

func (c *DependentSetCriteria) CorrelationID() string { return c.correlationID }

// IsNegated is always false.
func (c *DependentSetCriteria) IsNegated() bool { return false }

// SetNegated accepts false as a no-op and rejects true.
func (c *DependentSetCriteria) SetNegated(neg bool) error {
	if neg {
		return unsupported("negate dependent set", "a dependent set cannot be negated once its values are deferred to execution")
	}
	return nil
}

// Negate always fails.
func (c *DependentSetCriteria) Negate() error {
	return c.SetNegated(true)
}

func (c *DependentSetCriteria) Clone() expr.Expression {
	return &DependentSetCriteria{
		Expr:          expr.Clone(c.Expr),
		ValueExpr:     expr.Clone(c.ValueExpr),
		correlationID: c.correlationID,
	}
}

// Equal includes the value source id: two dependent sets over different
// sources select different rows.
func (c *DependentSetCriteria) Equal(other expr.Expression) bool {
	o, ok := other.(*DependentSetCriteria)
	return ok && c.correlationID == o.correlationID &&
		expr.Equal(c.Expr, o.Expr) && expr.Equal(c.ValueExpr, o.ValueExpr)
}

func (c *DependentSetCriteria) Canonical() ir.DObject {
	return canonicalNode("dependent_set", ir.DObject{
		"expr":       expr.CanonicalOf(c.Expr),
		"value_expr": expr.CanonicalOf(c.ValueExpr),
		"source":     ir.DString(c.correlationID),
	})
}

func (c *DependentSetCriteria) String() string {
	return operandString(c.Expr) + " IN (<" + c.correlationID + ">)"
}
