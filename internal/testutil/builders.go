package testutil

import (
	"strconv"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// IntCol returns an unqualified integer column.
func IntCol(name string) *expr.Column { return expr.NewColumn(name, ir.TypeInteger) }

// StrCol returns an unqualified string column.
func StrCol(name string) *expr.Column { return expr.NewColumn(name, ir.TypeString) }

// Int returns an integer constant.
func Int(n int64) *expr.Constant { return expr.NewConstant(ir.DInt(n)) }

// Str returns a string constant.
func Str(s string) *expr.Constant { return expr.NewConstant(ir.DString(s)) }

// Eq returns name = n over an integer column.
func Eq(name string, n int64) *criteria.CompareCriteria {
	return criteria.Compare(IntCol(name), criteria.OpEQ, Int(n))
}

// Cmp returns name op n over an integer column.
func Cmp(name string, op criteria.CompareOp, n int64) *criteria.CompareCriteria {
	return criteria.Compare(IntCol(name), op, Int(n))
}

// Like returns name LIKE pattern over a string column.
func Like(name, pattern string) *criteria.MatchCriteria {
	return criteria.NewMatchCriteria(StrCol(name), Str(pattern))
}

// In returns name IN (values...) over an integer column.
func In(name string, values ...int64) *criteria.SetCriteria {
	exprs := make([]expr.Expression, len(values))
	for i, v := range values {
		exprs[i] = Int(v)
	}
	return criteria.NewSetCriteria(IntCol(name), exprs...)
}

// Atoms returns n distinct atoms p0 = 0 ... p{n-1} = n-1.
func Atoms(n int) []criteria.Criteria {
	out := make([]criteria.Criteria, n)
	for i := range out {
		out[i] = Eq("p"+strconv.Itoa(i), int64(i))
	}
	return out
}
