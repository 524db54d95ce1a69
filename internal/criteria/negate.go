package criteria

// Negatable is implemented by predicates that can invert their truth value
// in place, without a NOT wrapper.
//
//	Compare, SubqueryCompare     operator inverse (and ALL<->SOME)
//	Between, Match, IsNull,
//	IsDistinct, Set, SubquerySet toggle the negated flag
//	DependentSet                 always fails (unsupported)
//
// Exists, Expression, Not and Compound are not Negatable; wrap them in a
// NotCriteria instead.
type Negatable interface {
	Criteria
	Negate() error
}

var (
	_ Negatable = (*CompareCriteria)(nil)
	_ Negatable = (*SubqueryCompareCriteria)(nil)
	_ Negatable = (*BetweenCriteria)(nil)
	_ Negatable = (*MatchCriteria)(nil)
	_ Negatable = (*IsNullCriteria)(nil)
	_ Negatable = (*IsDistinctCriteria)(nil)
	_ Negatable = (*SetCriteria)(nil)
	_ Negatable = (*SubquerySetCriteria)(nil)
	_ Negatable = (*DependentSetCriteria)(nil)

	_ Correlated = (*SubqueryCompareCriteria)(nil)
	_ Correlated = (*SubquerySetCriteria)(nil)
	_ Correlated = (*DependentSetCriteria)(nil)
	_ Correlated = (*ExistsCriteria)(nil)
)

// CanNegate reports whether c supports in-place negation.
func CanNegate(c Criteria) bool {
	switch c.(type) {
	case *DependentSetCriteria:
		return false
	case Negatable:
		return true
	default:
		return false
	}
}

// NegateOrWrap returns the logical negation of c. Negatable predicates
// are inverted in place and returned; anything else is wrapped in a new
// NotCriteria. Note that operator inversion treats NULL comparisons as
// two-valued.
func NegateOrWrap(c Criteria) Criteria {
	if CanNegate(c) {
		if err := c.(Negatable).Negate(); err == nil {
			return c
		}
	}
	return NewNotCriteria(c)
}
