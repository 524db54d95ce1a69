package rewrite

import "github.com/roach88/critnf/internal/criteria"

// PushNegation moves every NOT down to the atomic predicates and folds it
// into those that are Negatable: NOT (a < 1 OR b IS NULL) becomes
// a >= 1 AND b IS NOT NULL. Double negations disappear. A NOT over a
// predicate that cannot negate itself (EXISTS, a plain boolean expression,
// a dependent set) is kept as a NOT over that predicate.
//
// Operator inversion treats comparisons as two-valued: NOT (a < 1) and
// a >= 1 differ when a is NULL. Only apply this pass where the evaluator
// treats UNKNOWN as false, such as a top-level WHERE conjunct.
//
// The input is never modified. If nothing changes the input itself is
// returned, otherwise a tree that shares nothing with it.
func PushNegation(root criteria.Criteria) criteria.Criteria {
	if root == nil {
		return nil
	}
	result := push(root, false)
	if result.Equal(root) {
		return root
	}
	return criteria.Clone(result)
}

func push(c criteria.Criteria, negate bool) criteria.Criteria {
	switch n := c.(type) {
	case *criteria.NotCriteria:
		return push(n.Child, !negate)
	case *criteria.CompoundCriteria:
		op := n.Operator()
		if negate {
			op = op.Flip()
		}
		children := make([]criteria.Criteria, n.ChildCount())
		for i, child := range n.Children() {
			children[i] = push(child, negate)
		}
		out, err := criteria.NewCompoundCriteria(op, children...)
		if err != nil {
			// Only reachable for an empty compound; leave it alone.
			return c
		}
		return out
	default:
		if !negate {
			return c
		}
		if criteria.CanNegate(c) {
			// Negate a copy; the input tree must not change.
			return criteria.NegateOrWrap(criteria.Clone(c))
		}
		return criteria.NewNotCriteria(c)
	}
}
