package criteria

import (
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

func col(name string) *expr.Column {
	return expr.NewColumn(name, ir.TypeInteger)
}

func num(n int64) *expr.Constant {
	return expr.NewConstant(ir.DInt(n))
}

func str(s string) *expr.Constant {
	return expr.NewConstant(ir.DString(s))
}

// eq builds name = n.
func eq(name string, n int64) *CompareCriteria {
	return Compare(col(name), OpEQ, num(n))
}

func query(text string) *expr.Query {
	return expr.NewQuery(text, "id")
}

// testIDs returns a fresh counter so ids are deterministic per test.
func testIDs() Option {
	return WithCorrelationIDs(NewCounter("$t/"))
}

func boolConst(b bool) *expr.Constant {
	return expr.NewConstant(ir.DBool(b))
}

func groupSym(name string) *expr.GroupSymbol {
	return expr.NewGroupSymbol(name)
}
