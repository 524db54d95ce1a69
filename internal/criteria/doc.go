// Package criteria models SQL boolean predicates and rewrites them into
// disjunctive or conjunctive normal form.
//
// A predicate tree is built from a closed set of node kinds. Atomic
// predicates hold operand expressions:
//
//	CompareCriteria          x = 5
//	SubqueryCompareCriteria  x > ALL (SELECT ...)
//	BetweenCriteria          x BETWEEN 1 AND 10
//	MatchCriteria            name LIKE 'a%'
//	IsNullCriteria           x IS NULL
//	IsDistinctCriteria       g1 IS DISTINCT FROM g2
//	SetCriteria              x IN (1, 2, 3)
//	SubquerySetCriteria      x IN (SELECT ...)
//	DependentSetCriteria     x IN (<values bound at execution>)
//	ExistsCriteria           EXISTS (SELECT ...)
//	ExpressionCriteria       any boolean-valued expression
//
// Connectives hold child predicates: NotCriteria and CompoundCriteria
// (AND/OR over one or more children).
//
// Trees are mutable and not safe for concurrent use. Optimizer passes edit
// operators, negation flags, and child lists in place. Clone produces a
// fully independent copy; subquery correlation ids are copied, never
// regenerated, because they name a predicate site rather than an object.
//
// The only shared state is the process-wide PatternCache and the default
// correlation id Counter, both safe for concurrent use.
package criteria
