package querysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/critnf/internal/binding"
	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
	"github.com/roach88/critnf/internal/store"
)

const (
	sqlTrue  = "1 = 1"
	sqlFalse = "1 = 0"
)

// Select is a single-table query filtered by a predicate.
type Select struct {
	From    string
	Columns []string // Empty selects *
	Filter  criteria.Criteria
}

// Compiler compiles predicates to parameterized SQL for SQLite.
type Compiler struct {
	bindings *binding.Context
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithBindings supplies the values of correlated subqueries.
func WithBindings(b *binding.Context) Option {
	return func(c *Compiler) {
		c.bindings = b
	}
}

// NewCompiler creates a Compiler.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile converts a Select to parameterized SQL.
// Returns (sql, params, error) tuple.
//
// MANDATORY: Every query includes ORDER BY id ASC COLLATE BINARY.
func (c *Compiler) Compile(ctx context.Context, q Select) (string, []any, error) {
	if !store.IsIdentifier(q.From) {
		return "", nil, fmt.Errorf("invalid table name %q", q.From)
	}

	cols := "*"
	if len(q.Columns) > 0 {
		for _, col := range q.Columns {
			if !store.IsIdentifier(col) {
				return "", nil, fmt.Errorf("invalid column name %q", col)
			}
		}
		cols = strings.Join(q.Columns, ", ")
	}

	var whereClause string
	var params []any
	if q.Filter != nil {
		filterSQL, filterParams, err := c.CompileWhere(ctx, q.Filter)
		if err != nil {
			return "", nil, fmt.Errorf("compile filter: %w", err)
		}
		whereClause = " WHERE " + filterSQL
		params = filterParams
	}

	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id ASC COLLATE BINARY", cols, q.From, whereClause)
	return sql, params, nil
}

// CompileWhere compiles a predicate to a WHERE clause fragment.
// A nil predicate compiles to 1 = 1.
func (c *Compiler) CompileWhere(ctx context.Context, root criteria.Criteria) (string, []any, error) {
	if root == nil {
		return sqlTrue, nil, nil
	}
	w := &whereCompiler{ctx: ctx, bindings: c.bindings}
	return w.compile(root)
}

// whereCompiler renders one node per Visit call into sql and params.
// compile runs a fresh instance per child so fragments never interleave.
type whereCompiler struct {
	ctx      context.Context
	bindings *binding.Context

	sql    string
	params []any
}

func (w *whereCompiler) compile(c criteria.Criteria) (string, []any, error) {
	sub := &whereCompiler{ctx: w.ctx, bindings: w.bindings}
	if err := criteria.Accept(c, sub); err != nil {
		return "", nil, err
	}
	return sub.sql, sub.params, nil
}

func (w *whereCompiler) emit(sql string, params ...any) error {
	w.sql = sql
	w.params = params
	return nil
}

// boundValues returns the values bound for a correlated predicate, and
// false when the binding context has no source for it.
func (w *whereCompiler) boundValues(c criteria.Correlated) ([]ir.Datum, bool, error) {
	if w.bindings == nil {
		return nil, false, nil
	}
	if _, ok := w.bindings.Lookup(c.CorrelationID()); !ok {
		return nil, false, nil
	}
	values, err := w.bindings.ValuesFor(w.ctx, c)
	if err != nil {
		return nil, true, err
	}
	return values, true, nil
}

func (w *whereCompiler) VisitCompare(c *criteria.CompareCriteria) error {
	l, lp, err := compileOperand(c.Left)
	if err != nil {
		return err
	}
	r, rp, err := compileOperand(c.Right)
	if err != nil {
		return err
	}
	return w.emit(l+" "+c.Operator().String()+" "+r, append(lp, rp...)...)
}

func (w *whereCompiler) VisitSubqueryCompare(c *criteria.SubqueryCompareCriteria) error {
	l, lp, err := compileOperand(c.Left)
	if err != nil {
		return err
	}
	op := c.Operator().String()

	values, bound, err := w.boundValues(c)
	if err != nil {
		return err
	}
	if !bound {
		if c.Quantifier() != criteria.QuantNone {
			return unsupported("quantified comparison", "%s without bound values for %s", c.Quantifier(), c.CorrelationID())
		}
		text, err := subqueryText(c.Subquery)
		if err != nil {
			return err
		}
		return w.emit(l+" "+op+" ("+text+")", lp...)
	}

	switch c.Quantifier() {
	case criteria.QuantNone:
		// A scalar subquery yields NULL when empty.
		switch len(values) {
		case 0:
			return w.emit(l+" "+op+" ?", append(lp, nil)...)
		case 1:
			v, err := ir.ToGo(values[0])
			if err != nil {
				return err
			}
			return w.emit(l+" "+op+" ?", append(lp, v)...)
		default:
			return fmt.Errorf("scalar subquery %s returned %d values", c.CorrelationID(), len(values))
		}
	case criteria.QuantSome:
		return w.emitQuantified(l, lp, op, values, " OR ", sqlFalse)
	default:
		return w.emitQuantified(l, lp, op, values, " AND ", sqlTrue)
	}
}

// emitQuantified renders l op v1 JOIN l op v2 ... over the bound values.
// SOME over no rows is false and ALL over no rows is true.
func (w *whereCompiler) emitQuantified(l string, lp []any, op string, values []ir.Datum, join, empty string) error {
	if len(values) == 0 {
		return w.emit(empty)
	}
	parts := make([]string, len(values))
	var params []any
	for i, d := range values {
		v, err := ir.ToGo(d)
		if err != nil {
			return err
		}
		parts[i] = l + " " + op + " ?"
		params = append(params, lp...)
		params = append(params, v)
	}
	return w.emit("("+strings.Join(parts, join)+")", params...)
}

func (w *whereCompiler) VisitBetween(c *criteria.BetweenCriteria) error {
	e, ep, err := compileOperand(c.Expr)
	if err != nil {
		return err
	}
	lo, lop, err := compileOperand(c.Lower)
	if err != nil {
		return err
	}
	hi, hip, err := compileOperand(c.Upper)
	if err != nil {
		return err
	}
	params := append(append(ep, lop...), hip...)
	return w.emit(e+" "+notWord(c.IsNegated())+"BETWEEN "+lo+" AND "+hi, params...)
}

func (w *whereCompiler) VisitMatch(c *criteria.MatchCriteria) error {
	// Surface pattern errors at compile time rather than from SQLite.
	if _, err := c.Pattern(); err == nil {
		if _, err := c.Regexp(); err != nil {
			return err
		}
	}

	l, lp, err := compileOperand(c.Left)
	if err != nil {
		return err
	}
	r, rp, err := compileOperand(c.Right)
	if err != nil {
		return err
	}

	escape := ""
	if c.EscapeChar() != criteria.NoEscape {
		escape = string(c.EscapeChar())
	}

	if c.Mode() == criteria.ModeLike && !c.CaseInsensitive() {
		sql := l + " " + notWord(c.IsNegated()) + "LIKE " + r
		params := append(lp, rp...)
		if escape != "" {
			sql += " ESCAPE ?"
			params = append(params, escape)
		}
		return w.emit(sql, params...)
	}

	ci := int64(0)
	if c.CaseInsensitive() {
		ci = 1
	}
	sql := fmt.Sprintf("%s(%s, ?, ?, ?, %s)", store.MatchFunc, r, l)
	if c.IsNegated() {
		sql = "NOT " + sql
	}
	params := append(rp, int64(c.Mode()), escape, ci)
	params = append(params, lp...)
	return w.emit(sql, params...)
}

func (w *whereCompiler) VisitIsNull(c *criteria.IsNullCriteria) error {
	e, ep, err := compileOperand(c.Expr)
	if err != nil {
		return err
	}
	return w.emit(e+" IS "+notWord(c.IsNegated())+"NULL", ep...)
}

func (w *whereCompiler) VisitIsDistinct(c *criteria.IsDistinctCriteria) error {
	return unsupported("IS DISTINCT FROM", "row comparison of %s and %s", c.Left, c.Right)
}

func (w *whereCompiler) VisitSet(c *criteria.SetCriteria) error {
	e, ep, err := compileOperand(c.Expr)
	if err != nil {
		return err
	}
	items := make([]string, 0, len(c.Values()))
	var params []any
	for _, v := range c.Values() {
		s, p, err := compileOperand(v)
		if err != nil {
			return err
		}
		items = append(items, s)
		params = append(params, p...)
	}
	return w.emitIn(e, ep, c.IsNegated(), items, params)
}

func (w *whereCompiler) VisitSubquerySet(c *criteria.SubquerySetCriteria) error {
	e, ep, err := compileOperand(c.Expr)
	if err != nil {
		return err
	}
	values, bound, err := w.boundValues(c)
	if err != nil {
		return err
	}
	if !bound {
		text, err := subqueryText(c.Subquery)
		if err != nil {
			return err
		}
		return w.emit(e+" "+notWord(c.IsNegated())+"IN ("+text+")", ep...)
	}
	items, params, err := datumParams(values)
	if err != nil {
		return err
	}
	return w.emitIn(e, ep, c.IsNegated(), items, params)
}

func (w *whereCompiler) VisitDependentSet(c *criteria.DependentSetCriteria) error {
	e, ep, err := compileOperand(c.Expr)
	if err != nil {
		return err
	}
	if w.bindings == nil {
		return &binding.UnboundError{ID: c.CorrelationID()}
	}
	values, err := w.bindings.ValuesFor(w.ctx, c)
	if err != nil {
		return err
	}
	items, params, err := datumParams(values)
	if err != nil {
		return err
	}
	return w.emitIn(e, ep, false, items, params)
}

// emitIn renders e [NOT] IN (items). An empty list has no SQL syntax, so
// IN () is false and NOT IN () is true, whatever e is.
func (w *whereCompiler) emitIn(e string, ep []any, negated bool, items []string, params []any) error {
	if len(items) == 0 {
		if negated {
			return w.emit(sqlTrue)
		}
		return w.emit(sqlFalse)
	}
	sql := e + " " + notWord(negated) + "IN (" + strings.Join(items, ", ") + ")"
	return w.emit(sql, append(ep, params...)...)
}

func (w *whereCompiler) VisitExists(c *criteria.ExistsCriteria) error {
	values, bound, err := w.boundValues(c)
	if err != nil {
		return err
	}
	if bound {
		if len(values) > 0 {
			return w.emit(sqlTrue)
		}
		return w.emit(sqlFalse)
	}
	text, err := subqueryText(c.Subquery)
	if err != nil {
		return err
	}
	return w.emit("EXISTS (" + text + ")")
}

func (w *whereCompiler) VisitExpression(c *criteria.ExpressionCriteria) error {
	e, ep, err := compileOperand(c.Expr)
	if err != nil {
		return err
	}
	return w.emit(e, ep...)
}

func (w *whereCompiler) VisitNot(c *criteria.NotCriteria) error {
	if c.Child == nil {
		return fmt.Errorf("NOT without operand")
	}
	s, p, err := w.compile(c.Child)
	if err != nil {
		return err
	}
	return w.emit("NOT ("+s+")", p...)
}

func (w *whereCompiler) VisitCompound(c *criteria.CompoundCriteria) error {
	if c.ChildCount() == 0 {
		return fmt.Errorf("%s with no operands", c.Operator())
	}
	parts := make([]string, 0, c.ChildCount())
	var params []any
	for i, child := range c.Children() {
		if child == nil {
			return fmt.Errorf("%s operand %d is nil", c.Operator(), i)
		}
		s, p, err := w.compile(child)
		if err != nil {
			return err
		}
		parts = append(parts, s)
		params = append(params, p...)
	}
	return w.emit("("+strings.Join(parts, " "+c.Operator().String()+" ")+")", params...)
}

// compileOperand renders a scalar expression.
// CRITICAL: Constants are NEVER interpolated - always parameterized.
func compileOperand(e expr.Expression) (string, []any, error) {
	switch v := e.(type) {
	case nil:
		return "NULL", nil, nil
	case *expr.Constant:
		p, err := ir.ToGo(v.Value)
		if err != nil {
			return "", nil, fmt.Errorf("convert constant: %w", err)
		}
		return "?", []any{p}, nil
	case *expr.Column:
		if !store.IsIdentifier(v.Name) {
			return "", nil, fmt.Errorf("invalid column name %q", v.Name)
		}
		if v.Group == "" {
			return strings.ToLower(v.Name), nil, nil
		}
		if !store.IsIdentifier(v.Group) {
			return "", nil, fmt.Errorf("invalid group name %q", v.Group)
		}
		return v.Group + "." + strings.ToLower(v.Name), nil, nil
	case *expr.Function:
		if !store.IsIdentifier(v.Name) {
			return "", nil, fmt.Errorf("invalid function name %q", v.Name)
		}
		args := make([]string, len(v.Args))
		var params []any
		for i, arg := range v.Args {
			s, p, err := compileOperand(arg)
			if err != nil {
				return "", nil, err
			}
			args[i] = s
			params = append(params, p...)
		}
		return v.Name + "(" + strings.Join(args, ", ") + ")", params, nil
	case criteria.Criteria:
		return "", nil, unsupported("operand", "nested predicate %s", v)
	default:
		return "", nil, unsupported("operand", "expression type %T", e)
	}
}

func datumParams(values []ir.Datum) ([]string, []any, error) {
	items := make([]string, len(values))
	params := make([]any, len(values))
	for i, d := range values {
		v, err := ir.ToGo(d)
		if err != nil {
			return nil, nil, err
		}
		items[i] = "?"
		params[i] = v
	}
	return items, params, nil
}

func subqueryText(q expr.QueryCommand) (string, error) {
	if q == nil {
		return "", fmt.Errorf("subquery is nil")
	}
	return q.String(), nil
}

func notWord(negated bool) string {
	if negated {
		return "NOT "
	}
	return ""
}
