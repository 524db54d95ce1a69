package querysql

import (
	"fmt"

	"github.com/roach88/critnf/internal/binding"
	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/expr"
)

// ValidationResult is a compilability analysis of a predicate tree.
type ValidationResult struct {
	// Compilable is true when Compile would succeed under the same bindings.
	Compilable bool

	// Problems lists every construct Compile would reject. Compile stops at
	// the first; Validate reports them all.
	Problems []string

	// Warnings lists constructs that compile but are almost certainly
	// mistakes, such as comparing with a NULL constant.
	Warnings []string
}

// Validate checks a predicate against the SQL compiler's supported
// fragment. bindings may be nil.
//
// Validate is a pure function with no side effects; value sources are
// looked up but never read.
func Validate(root criteria.Criteria, bindings *binding.Context) ValidationResult {
	v := &validator{bindings: bindings, problems: []string{}, warnings: []string{}}
	if root != nil {
		// Walk only fails if a Visit method does, and none of these do.
		_ = criteria.Walk(root, v)
	}
	return ValidationResult{
		Compilable: len(v.problems) == 0,
		Problems:   v.problems,
		Warnings:   v.warnings,
	}
}

// validator accumulates findings during traversal.
type validator struct {
	criteria.BaseVisitor
	bindings *binding.Context
	problems []string
	warnings []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) bound(c criteria.Correlated) bool {
	if v.bindings == nil {
		return false
	}
	_, ok := v.bindings.Lookup(c.CorrelationID())
	return ok
}

// checkOperands reports operands that have no SQL rendering.
func (v *validator) checkOperands(where string, operands ...expr.Expression) {
	for _, e := range operands {
		if _, _, err := compileOperand(e); err != nil {
			v.addProblem("%s: %v", where, err)
		}
	}
}

func (v *validator) warnNullConstant(where string, operands ...expr.Expression) {
	for _, e := range operands {
		if k, ok := e.(*expr.Constant); ok && k.IsNull() {
			v.addWarning("%s: comparison with NULL constant is never true", where)
			return
		}
	}
}

func (v *validator) VisitCompare(c *criteria.CompareCriteria) error {
	v.checkOperands(c.String(), c.Left, c.Right)
	v.warnNullConstant(c.String(), c.Left, c.Right)
	return nil
}

func (v *validator) VisitSubqueryCompare(c *criteria.SubqueryCompareCriteria) error {
	v.checkOperands(c.String(), c.Left)
	if c.Quantifier() != criteria.QuantNone && !v.bound(c) {
		v.addProblem("%s: %s comparison needs bound values for %s", c, c.Quantifier(), c.CorrelationID())
	}
	if !v.bound(c) && c.Subquery == nil {
		v.addProblem("%s: subquery is nil", c)
	}
	return nil
}

func (v *validator) VisitBetween(c *criteria.BetweenCriteria) error {
	v.checkOperands(c.String(), c.Expr, c.Lower, c.Upper)
	v.warnNullConstant(c.String(), c.Lower, c.Upper)
	return nil
}

func (v *validator) VisitMatch(c *criteria.MatchCriteria) error {
	v.checkOperands(c.String(), c.Left, c.Right)
	if _, err := c.Pattern(); err == nil {
		if _, err := c.Regexp(); err != nil {
			v.addProblem("%s: %v", c, err)
		}
	}
	return nil
}

func (v *validator) VisitIsNull(c *criteria.IsNullCriteria) error {
	v.checkOperands(c.String(), c.Expr)
	return nil
}

func (v *validator) VisitIsDistinct(c *criteria.IsDistinctCriteria) error {
	v.addProblem("%s: IS DISTINCT FROM compares whole rows and has no single-table rendering", c)
	return nil
}

func (v *validator) VisitSet(c *criteria.SetCriteria) error {
	v.checkOperands(c.String(), c.Expr)
	v.checkOperands(c.String(), c.Values()...)
	if c.IsNegated() {
		v.warnNullConstant(c.String(), c.Values()...)
	}
	return nil
}

func (v *validator) VisitSubquerySet(c *criteria.SubquerySetCriteria) error {
	v.checkOperands(c.String(), c.Expr)
	if !v.bound(c) && c.Subquery == nil {
		v.addProblem("%s: subquery is nil", c)
	}
	return nil
}

func (v *validator) VisitDependentSet(c *criteria.DependentSetCriteria) error {
	v.checkOperands(c.String(), c.Expr)
	if !v.bound(c) {
		v.addProblem("%s: dependent values for %s are not bound", c, c.CorrelationID())
	}
	return nil
}

func (v *validator) VisitExists(c *criteria.ExistsCriteria) error {
	if !v.bound(c) && c.Subquery == nil {
		v.addProblem("%s: subquery is nil", c)
	}
	return nil
}

func (v *validator) VisitExpression(c *criteria.ExpressionCriteria) error {
	v.checkOperands(c.String(), c.Expr)
	return nil
}

func (v *validator) VisitNot(c *criteria.NotCriteria) error {
	if c.Child == nil {
		v.addProblem("NOT without operand")
	}
	return nil
}

func (v *validator) VisitCompound(c *criteria.CompoundCriteria) error {
	for i, child := range c.Children() {
		if child == nil {
			v.addProblem("%s operand %d is nil", c.Operator(), i)
		}
	}
	return nil
}
