package criteria

import (
	"errors"
	"fmt"
)

// Visitor has one method per predicate kind. Accept dispatches to it.
type Visitor interface {
	VisitCompare(*CompareCriteria) error
	VisitSubqueryCompare(*SubqueryCompareCriteria) error
	VisitBetween(*BetweenCriteria) error
	VisitMatch(*MatchCriteria) error
	VisitIsNull(*IsNullCriteria) error
	VisitIsDistinct(*IsDistinctCriteria) error
	VisitSet(*SetCriteria) error
	VisitSubquerySet(*SubquerySetCriteria) error
	VisitDependentSet(*DependentSetCriteria) error
	VisitExists(*ExistsCriteria) error
	VisitExpression(*ExpressionCriteria) error
	VisitNot(*NotCriteria) error
	VisitCompound(*CompoundCriteria) error
}

// BaseVisitor implements every Visitor method as a no-op. Embed it to
// override only the kinds of interest.
type BaseVisitor struct{}

func (BaseVisitor) VisitCompare(*CompareCriteria) error                 { return nil }
func (BaseVisitor) VisitSubqueryCompare(*SubqueryCompareCriteria) error { return nil }
func (BaseVisitor) VisitBetween(*BetweenCriteria) error                 { return nil }
func (BaseVisitor) VisitMatch(*MatchCriteria) error                     { return nil }
func (BaseVisitor) VisitIsNull(*IsNullCriteria) error                   { return nil }
func (BaseVisitor) VisitIsDistinct(*IsDistinctCriteria) error           { return nil }
func (BaseVisitor) VisitSet(*SetCriteria) error                         { return nil }
func (BaseVisitor) VisitSubquerySet(*SubquerySetCriteria) error         { return nil }
func (BaseVisitor) VisitDependentSet(*DependentSetCriteria) error       { return nil }
func (BaseVisitor) VisitExists(*ExistsCriteria) error                   { return nil }
func (BaseVisitor) VisitExpression(*ExpressionCriteria) error           { return nil }
func (BaseVisitor) VisitNot(*NotCriteria) error                         { return nil }
func (BaseVisitor) VisitCompound(*CompoundCriteria) error               { return nil }

// Accept calls the Visitor method matching the concrete kind of c.
func Accept(c Criteria, v Visitor) error {
	switch n := c.(type) {
	case *CompareCriteria:
		return v.VisitCompare(n)
	case *SubqueryCompareCriteria:
		return v.VisitSubqueryCompare(n)
	case *BetweenCriteria:
		return v.VisitBetween(n)
	case *MatchCriteria:
		return v.VisitMatch(n)
	case *IsNullCriteria:
		return v.VisitIsNull(n)
	case *IsDistinctCriteria:
		return v.VisitIsDistinct(n)
	case *SetCriteria:
		return v.VisitSet(n)
	case *SubquerySetCriteria:
		return v.VisitSubquerySet(n)
	case *DependentSetCriteria:
		return v.VisitDependentSet(n)
	case *ExistsCriteria:
		return v.VisitExists(n)
	case *ExpressionCriteria:
		return v.VisitExpression(n)
	case *NotCriteria:
		return v.VisitNot(n)
	case *CompoundCriteria:
		return v.VisitCompound(n)
	default:
		return fmt.Errorf("unknown criteria type: %T", c)
	}
}

// SkipChildren may be returned by a Visitor method during Walk to skip
// the children of the current node. Walk itself never returns it.
var SkipChildren = errors.New("skip children")

// Walk visits root and its descendants in pre-order. An error other than
// SkipChildren stops the walk and is returned.
func Walk(root Criteria, v Visitor) error {
	if root == nil {
		return nil
	}
	if err := Accept(root, v); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	switch n := root.(type) {
	case *NotCriteria:
		return Walk(n.Child, v)
	case *CompoundCriteria:
		for _, child := range n.children {
			if err := Walk(child, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Inspect walks root in pre-order calling fn for each node. If fn returns
// false the node's children are skipped.
func Inspect(root Criteria, fn func(Criteria) bool) {
	if root == nil || !fn(root) {
		return
	}
	switch n := root.(type) {
	case *NotCriteria:
		Inspect(n.Child, fn)
	case *CompoundCriteria:
		for _, child := range n.children {
			Inspect(child, fn)
		}
	}
}

// CorrelatedCriteria returns every predicate under root that carries a
// correlation id, in pre-order.
func CorrelatedCriteria(root Criteria) []Correlated {
	var out []Correlated
	Inspect(root, func(c Criteria) bool {
		if cc, ok := c.(Correlated); ok {
			out = append(out, cc)
		}
		return true
	})
	return out
}

// CountAtoms returns the number of atomic (non-connective) predicates
// under root.
func CountAtoms(root Criteria) int {
	n := 0
	Inspect(root, func(c Criteria) bool {
		switch c.(type) {
		case *NotCriteria, *CompoundCriteria:
		default:
			n++
		}
		return true
	})
	return n
}
