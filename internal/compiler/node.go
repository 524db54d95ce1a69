package compiler

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"cuelang.org/go/cue"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// nodeKinds lists the keys that select a predicate kind.
var nodeKinds = []string{
	"and", "between", "compare", "dependent_in", "distinct", "exists", "expr",
	"in_list", "in_subquery", "isnull", "like", "not", "or", "quantified",
}

// nodeCompiler compiles predicate nodes against one column table.
type nodeCompiler struct {
	columns map[string]ir.Type
	opts    []criteria.Option
}

// compileNode dispatches on the single key of a node struct.
func (c *nodeCompiler) compileNode(v cue.Value, path string) (criteria.Criteria, error) {
	if v.Kind() != cue.StructKind {
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("predicate must be a struct with one of: %s", strings.Join(nodeKinds, ", ")),
			Pos:     v.Pos(),
		}
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var keys []string
	var body cue.Value
	for iter.Next() {
		keys = append(keys, iter.Label())
		body = iter.Value()
	}
	if len(keys) != 1 {
		sort.Strings(keys)
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("predicate must have exactly one key, got [%s]", strings.Join(keys, ", ")),
			Pos:     v.Pos(),
		}
	}

	kind := keys[0]
	path = path + "." + kind
	switch kind {
	case "and", "or":
		return c.compileCompound(body, path, kind)
	case "not":
		child, err := c.compileNode(body, path)
		if err != nil {
			return nil, err
		}
		return criteria.NewNotCriteria(child), nil
	case "compare":
		return c.compileCompare(body, path)
	case "quantified":
		return c.compileQuantified(body, path)
	case "between":
		return c.compileBetween(body, path)
	case "like":
		return c.compileLike(body, path)
	case "isnull":
		return c.compileIsNull(body, path)
	case "distinct":
		return c.compileDistinct(body, path)
	case "in_list":
		return c.compileIn(body, path)
	case "in_subquery":
		return c.compileInSubquery(body, path)
	case "dependent_in":
		return c.compileDependentIn(body, path)
	case "exists":
		return c.compileExists(body, path)
	case "expr":
		e, err := c.compileOperand(body, path)
		if err != nil {
			return nil, err
		}
		return criteria.NewExpressionCriteria(e), nil
	default:
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("unknown predicate kind %q (must be one of: %s)", kind, strings.Join(nodeKinds, ", ")),
			Pos:     v.Pos(),
		}
	}
}

func (c *nodeCompiler) compileCompound(v cue.Value, path, kind string) (criteria.Criteria, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: path, Message: "must be a list of predicates", Pos: v.Pos()}
	}

	var children []criteria.Criteria
	for i := 0; iter.Next(); i++ {
		child, err := c.compileNode(iter.Value(), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if len(children) == 0 {
		return nil, &CompileError{Field: path, Message: "needs at least one predicate", Pos: v.Pos()}
	}

	op := criteria.OpAND
	if kind == "or" {
		op = criteria.OpOR
	}
	return criteria.NewCompoundCriteria(op, children...)
}

func (c *nodeCompiler) compileCompare(v cue.Value, path string) (criteria.Criteria, error) {
	left, err := c.requiredOperand(v, path, "left")
	if err != nil {
		return nil, err
	}
	op, err := c.compareOp(v, path)
	if err != nil {
		return nil, err
	}
	right, err := c.requiredOperand(v, path, "right")
	if err != nil {
		return nil, err
	}
	return criteria.NewCompareCriteria(left, op, right)
}

func (c *nodeCompiler) compileQuantified(v cue.Value, path string) (criteria.Criteria, error) {
	left, err := c.requiredOperand(v, path, "left")
	if err != nil {
		return nil, err
	}
	op, err := c.compareOp(v, path)
	if err != nil {
		return nil, err
	}
	q, err := c.query(v, path)
	if err != nil {
		return nil, err
	}

	quant := criteria.QuantNone
	name, ok, err := optionalString(v, "quantifier")
	if err != nil {
		return nil, err
	}
	if ok {
		quant, err = criteria.ParseQuantifier(name)
		if err != nil {
			return nil, &CompileError{Field: path + ".quantifier", Message: err.Error(), Pos: v.Pos()}
		}
	}
	return criteria.NewSubqueryCompareCriteria(left, op, q, quant, c.opts...)
}

func (c *nodeCompiler) compileBetween(v cue.Value, path string) (criteria.Criteria, error) {
	e, err := c.requiredOperand(v, path, "expr")
	if err != nil {
		return nil, err
	}
	lo, err := c.requiredOperand(v, path, "lower")
	if err != nil {
		return nil, err
	}
	hi, err := c.requiredOperand(v, path, "upper")
	if err != nil {
		return nil, err
	}
	pred := criteria.NewBetweenCriteria(e, lo, hi)
	neg, err := optionalBool(v, "not")
	if err != nil {
		return nil, err
	}
	pred.SetNegated(neg)
	return pred, nil
}

func (c *nodeCompiler) compileLike(v cue.Value, path string) (criteria.Criteria, error) {
	e, err := c.requiredOperand(v, path, "expr")
	if err != nil {
		return nil, err
	}
	pattern, err := c.requiredOperand(v, path, "pattern")
	if err != nil {
		return nil, err
	}
	pred := criteria.NewMatchCriteria(e, pattern, c.opts...)

	if mode, ok, err := optionalString(v, "mode"); err != nil {
		return nil, err
	} else if ok {
		m, err := criteria.ParseMatchMode(mode)
		if err != nil {
			return nil, &CompileError{Field: path + ".mode", Message: err.Error(), Pos: v.Pos()}
		}
		if err := pred.SetMode(m); err != nil {
			return nil, err
		}
	}

	if esc, ok, err := optionalString(v, "escape"); err != nil {
		return nil, err
	} else if ok {
		if utf8.RuneCountInString(esc) != 1 {
			return nil, &CompileError{Field: path + ".escape", Message: "escape must be a single character", Pos: v.Pos()}
		}
		r, _ := utf8.DecodeRuneInString(esc)
		pred.SetEscapeChar(r)
	}

	ci, err := optionalBool(v, "ci")
	if err != nil {
		return nil, err
	}
	pred.SetCaseInsensitive(ci)

	neg, err := optionalBool(v, "not")
	if err != nil {
		return nil, err
	}
	pred.SetNegated(neg)
	return pred, nil
}

func (c *nodeCompiler) compileIsNull(v cue.Value, path string) (criteria.Criteria, error) {
	e, err := c.requiredOperand(v, path, "expr")
	if err != nil {
		return nil, err
	}
	pred := criteria.NewIsNullCriteria(e)
	neg, err := optionalBool(v, "not")
	if err != nil {
		return nil, err
	}
	pred.SetNegated(neg)
	return pred, nil
}

func (c *nodeCompiler) compileDistinct(v cue.Value, path string) (criteria.Criteria, error) {
	left, err := requiredString(v, path, "left")
	if err != nil {
		return nil, err
	}
	right, err := requiredString(v, path, "right")
	if err != nil {
		return nil, err
	}
	pred := criteria.NewIsDistinctCriteria(expr.NewGroupSymbol(left), expr.NewGroupSymbol(right))
	neg, err := optionalBool(v, "not")
	if err != nil {
		return nil, err
	}
	pred.SetNegated(neg)
	return pred, nil
}

func (c *nodeCompiler) compileIn(v cue.Value, path string) (criteria.Criteria, error) {
	e, err := c.requiredOperand(v, path, "expr")
	if err != nil {
		return nil, err
	}

	valuesVal := v.LookupPath(cue.ParsePath("values"))
	if !valuesVal.Exists() {
		return nil, &CompileError{Field: path + ".values", Message: "values is required", Pos: v.Pos()}
	}
	iter, err := valuesVal.List()
	if err != nil {
		return nil, &CompileError{Field: path + ".values", Message: "must be a list of operands", Pos: valuesVal.Pos()}
	}
	var values []expr.Expression
	for i := 0; iter.Next(); i++ {
		val, err := c.compileOperand(iter.Value(), fmt.Sprintf("%s.values[%d]", path, i))
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}

	pred := criteria.NewSetCriteria(e, values...)
	neg, err := optionalBool(v, "not")
	if err != nil {
		return nil, err
	}
	pred.SetNegated(neg)
	return pred, nil
}

func (c *nodeCompiler) compileInSubquery(v cue.Value, path string) (criteria.Criteria, error) {
	e, err := c.requiredOperand(v, path, "expr")
	if err != nil {
		return nil, err
	}
	q, err := c.query(v, path)
	if err != nil {
		return nil, err
	}
	pred := criteria.NewSubquerySetCriteria(e, q, c.opts...)
	neg, err := optionalBool(v, "not")
	if err != nil {
		return nil, err
	}
	pred.SetNegated(neg)
	return pred, nil
}

func (c *nodeCompiler) compileDependentIn(v cue.Value, path string) (criteria.Criteria, error) {
	e, err := c.requiredOperand(v, path, "expr")
	if err != nil {
		return nil, err
	}
	valueExpr, err := c.requiredOperand(v, path, "value")
	if err != nil {
		return nil, err
	}
	source, err := requiredString(v, path, "source")
	if err != nil {
		return nil, err
	}
	if source == "" {
		return nil, &CompileError{Field: path + ".source", Message: "source id must be non-empty", Pos: v.Pos()}
	}
	return criteria.NewDependentSetCriteria(e, valueExpr, source), nil
}

func (c *nodeCompiler) compileExists(v cue.Value, path string) (criteria.Criteria, error) {
	q, err := c.query(v, path)
	if err != nil {
		return nil, err
	}
	pred := criteria.NewExistsCriteria(q, c.opts...)
	pred.ShouldEvaluate, err = optionalBool(v, "evaluate")
	if err != nil {
		return nil, err
	}
	return pred, nil
}

func (c *nodeCompiler) compareOp(v cue.Value, path string) (criteria.CompareOp, error) {
	name, err := requiredString(v, path, "op")
	if err != nil {
		return 0, err
	}
	op, err := criteria.ParseCompareOp(name)
	if err != nil {
		return 0, &CompileError{Field: path + ".op", Message: err.Error(), Pos: v.Pos()}
	}
	return op, nil
}

// query reads the subquery text and its optional projected columns.
func (c *nodeCompiler) query(v cue.Value, path string) (*expr.Query, error) {
	text, err := requiredString(v, path, "query")
	if err != nil {
		return nil, err
	}
	var cols []string
	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if colsVal.Exists() {
		if err := colsVal.Decode(&cols); err != nil {
			return nil, formatCUEError(err)
		}
	}
	return expr.NewQuery(text, cols...), nil
}

func (c *nodeCompiler) requiredOperand(v cue.Value, path, field string) (expr.Expression, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, &CompileError{Field: path + "." + field, Message: field + " is required", Pos: v.Pos()}
	}
	return c.compileOperand(fv, path+"."+field)
}

// compileOperand converts an operand value to an expression.
func (c *nodeCompiler) compileOperand(v cue.Value, path string) (expr.Expression, error) {
	switch v.Kind() {
	case cue.StringKind:
		name, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return expr.NewColumn(name, c.columns[lower(name)]), nil
	case cue.IntKind, cue.BoolKind, cue.NullKind, cue.FloatKind, cue.ListKind:
		d, err := datum(v, path)
		if err != nil {
			return nil, err
		}
		return expr.NewConstant(d), nil
	case cue.StructKind:
		return c.compileOperandStruct(v, path)
	default:
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("operand must be concrete, got %s", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func (c *nodeCompiler) compileOperandStruct(v cue.Value, path string) (expr.Expression, error) {
	if lit := v.LookupPath(cue.ParsePath("lit")); lit.Exists() {
		d, err := datum(lit, path+".lit")
		if err != nil {
			return nil, err
		}
		return expr.NewConstant(d), nil
	}

	if col := v.LookupPath(cue.ParsePath("col")); col.Exists() {
		name, err := col.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		group, _, err := optionalString(v, "group")
		if err != nil {
			return nil, err
		}
		return &expr.Column{Group: group, Name: name, Typ: c.columns[lower(name)]}, nil
	}

	if fn := v.LookupPath(cue.ParsePath("fn")); fn.Exists() {
		name, err := fn.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		typ := ir.TypeUnknown
		if typeName, ok, err := optionalString(v, "type"); err != nil {
			return nil, err
		} else if ok {
			if typ, err = ir.ParseType(typeName); err != nil {
				return nil, &CompileError{Field: path + ".type", Message: err.Error(), Pos: v.Pos()}
			}
		}

		var args []expr.Expression
		if argsVal := v.LookupPath(cue.ParsePath("args")); argsVal.Exists() {
			iter, err := argsVal.List()
			if err != nil {
				return nil, &CompileError{Field: path + ".args", Message: "must be a list of operands", Pos: argsVal.Pos()}
			}
			for i := 0; iter.Next(); i++ {
				arg, err := c.compileOperand(iter.Value(), fmt.Sprintf("%s.args[%d]", path, i))
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
		}
		return expr.NewFunction(name, typ, args...), nil
	}

	return nil, &CompileError{
		Field:   path,
		Message: "operand struct must have lit, col, or fn",
		Pos:     v.Pos(),
	}
}

// datum decodes a concrete CUE value into a constant. Floats are rejected.
func datum(v cue.Value, path string) (ir.Datum, error) {
	switch v.Kind() {
	case cue.NullKind:
		return ir.DNull{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.DBool(b), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, &CompileError{Field: path, Message: "integer out of int64 range", Pos: v.Pos()}
		}
		return ir.DInt(n), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return ir.DString(s), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		arr := ir.DArray{}
		for i := 0; iter.Next(); i++ {
			d, err := datum(iter.Value(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			arr = append(arr, d)
		}
		return arr, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		obj := ir.DObject{}
		for iter.Next() {
			d, err := datum(iter.Value(), path+"."+iter.Label())
			if err != nil {
				return nil, err
			}
			obj[iter.Label()] = d
		}
		return obj, nil
	case cue.FloatKind:
		return nil, &CompileError{Field: path, Message: "float constants are not supported", Pos: v.Pos()}
	default:
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("constant must be concrete, got %s", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func requiredString(v cue.Value, path, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{Field: path + "." + field, Message: field + " is required", Pos: v.Pos()}
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: path + "." + field, Message: "must be a string", Pos: fv.Pos()}
	}
	return s, nil
}

func optionalString(v cue.Value, field string) (string, bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", false, nil
	}
	s, err := fv.String()
	if err != nil {
		return "", false, formatCUEError(err)
	}
	return s, true, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func lower(s string) string {
	return strings.ToLower(s)
}
