package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrNoCriteria       = "E100" // document has no predicate
	ErrUndeclaredColumn = "E101" // column not in the columns table
	ErrTypeMismatch     = "E102" // operands of different known types
	ErrPatternOperand   = "E103" // LIKE on a non-string operand or pattern
	ErrInvalidPattern   = "E104" // pattern does not compile
	ErrEmptyQuery       = "E105" // subquery text is blank
	ErrSourceConflict   = "E106" // one dependent source id with different value expressions
)

// ValidationError represents a document validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled document against its column table.
// Returns all errors found (does not fail-fast).
//
// Column checks apply only when the document declares columns.
func Validate(doc *Document) []ValidationError {
	if doc == nil || doc.Criteria == nil {
		return []ValidationError{{
			Field:   "criteria",
			Message: "document has no criteria",
			Code:    ErrNoCriteria,
		}}
	}

	v := &docValidator{columns: doc.Columns, sources: map[string]expr.Expression{}}
	// The visitor never returns an error.
	_ = criteria.Walk(doc.Criteria, v)
	return v.errs
}

type docValidator struct {
	criteria.BaseVisitor
	columns map[string]ir.Type
	sources map[string]expr.Expression
	errs    []ValidationError
}

func (v *docValidator) add(field, code, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
}

// checkColumns reports undeclared columns anywhere in the operands.
func (v *docValidator) checkColumns(field string, operands ...expr.Expression) {
	if len(v.columns) == 0 {
		return
	}
	for _, e := range operands {
		switch x := e.(type) {
		case *expr.Column:
			if _, ok := v.columns[strings.ToLower(x.Name)]; !ok {
				v.add(field, ErrUndeclaredColumn, "column %q is not declared", x.Name)
			}
		case *expr.Function:
			v.checkColumns(field, x.Args...)
		}
	}
}

// checkTypes reports operands whose known types differ. NULL and unknown
// types match anything.
func (v *docValidator) checkTypes(field string, operands ...expr.Expression) {
	want := ir.TypeUnknown
	for _, e := range operands {
		t := operandType(e)
		if t == ir.TypeUnknown || t == ir.TypeNull {
			continue
		}
		if want == ir.TypeUnknown {
			want = t
			continue
		}
		if t != want {
			v.add(field, ErrTypeMismatch, "cannot compare %s with %s (%s)", want, t, e)
			return
		}
	}
}

func operandType(e expr.Expression) ir.Type {
	if e == nil {
		return ir.TypeUnknown
	}
	return e.Type()
}

func (v *docValidator) checkQuery(field string, q expr.QueryCommand) {
	if q == nil || strings.TrimSpace(q.String()) == "" {
		v.add(field, ErrEmptyQuery, "subquery text is empty")
	}
}

func (v *docValidator) VisitCompare(c *criteria.CompareCriteria) error {
	v.checkColumns(c.String(), c.Left, c.Right)
	v.checkTypes(c.String(), c.Left, c.Right)
	return nil
}

func (v *docValidator) VisitSubqueryCompare(c *criteria.SubqueryCompareCriteria) error {
	v.checkColumns(c.String(), c.Left)
	v.checkQuery(c.String(), c.Subquery)
	return nil
}

func (v *docValidator) VisitBetween(c *criteria.BetweenCriteria) error {
	v.checkColumns(c.String(), c.Expr, c.Lower, c.Upper)
	v.checkTypes(c.String(), c.Expr, c.Lower, c.Upper)
	return nil
}

func (v *docValidator) VisitMatch(c *criteria.MatchCriteria) error {
	v.checkColumns(c.String(), c.Left, c.Right)
	for _, e := range []expr.Expression{c.Left, c.Right} {
		if t := operandType(e); t != ir.TypeUnknown && t != ir.TypeNull && t != ir.TypeString {
			v.add(c.String(), ErrPatternOperand, "%s is %s, not string", e, t)
		}
	}
	if _, err := c.Pattern(); err == nil {
		if _, err := c.Regexp(); err != nil {
			v.add(c.String(), ErrInvalidPattern, "%v", err)
		}
	}
	return nil
}

func (v *docValidator) VisitIsNull(c *criteria.IsNullCriteria) error {
	v.checkColumns(c.String(), c.Expr)
	return nil
}

func (v *docValidator) VisitSet(c *criteria.SetCriteria) error {
	v.checkColumns(c.String(), c.Expr)
	v.checkColumns(c.String(), c.Values()...)
	for _, val := range c.Values() {
		v.checkTypes(c.String(), c.Expr, val)
	}
	return nil
}

func (v *docValidator) VisitSubquerySet(c *criteria.SubquerySetCriteria) error {
	v.checkColumns(c.String(), c.Expr)
	v.checkQuery(c.String(), c.Subquery)
	return nil
}

func (v *docValidator) VisitDependentSet(c *criteria.DependentSetCriteria) error {
	v.checkColumns(c.String(), c.Expr)
	id := c.CorrelationID()
	if prev, ok := v.sources[id]; ok && !expr.Equal(prev, c.ValueExpr) {
		v.add(c.String(), ErrSourceConflict, "source %q is read as both %s and %s", id, prev, c.ValueExpr)
	} else if !ok {
		v.sources[id] = c.ValueExpr
	}
	return nil
}

func (v *docValidator) VisitExists(c *criteria.ExistsCriteria) error {
	v.checkQuery(c.String(), c.Subquery)
	return nil
}

func (v *docValidator) VisitExpression(c *criteria.ExpressionCriteria) error {
	v.checkColumns(c.String(), c.Expr)
	return nil
}
