// Package binding attaches execution-time values to correlated predicates.
//
// Subquery predicates (EXISTS, IN-subquery, quantified comparisons) and
// dependent sets carry a correlation id. Before a predicate tree is
// evaluated, the executor binds a ValueSource to each id in a Context; the
// evaluator then resolves values by id. Contexts nest: a child context sees
// its parent's bindings and may add its own, which is how per-row bindings
// of a correlated subquery are layered over query-wide ones.
package binding
