// Package rewrite holds the optimizer-facing passes built on package
// criteria: negation pushdown and budgeted normal-form conversion.
//
// criteria.ToDisjunctiveNormalForm expands without bound. A Normalizer
// first estimates the clause count of the result and declines to expand
// past its budget, returning the input unchanged with an
// ExpansionLimitError so the planner can keep the un-normalized tree.
package rewrite
