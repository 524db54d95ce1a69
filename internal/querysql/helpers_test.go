package querysql

import (
	"io"
	"log/slog"

	"github.com/roach88/critnf/internal/binding"
	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

func intCol(name string) *expr.Column { return expr.NewColumn(name, ir.TypeInteger) }
func strCol(name string) *expr.Column { return expr.NewColumn(name, ir.TypeString) }

func num(n int64) *expr.Constant    { return expr.NewConstant(ir.DInt(n)) }
func str(s string) *expr.Constant   { return expr.NewConstant(ir.DString(s)) }
func boolean(b bool) *expr.Constant { return expr.NewConstant(ir.DBool(b)) }

func cmp(e expr.Expression, op criteria.CompareOp, v expr.Expression) *criteria.CompareCriteria {
	return criteria.Compare(e, op, v)
}

func like(e expr.Expression, pattern string) *criteria.MatchCriteria {
	return criteria.NewMatchCriteria(e, str(pattern))
}

func testIDs() criteria.Option {
	return criteria.WithCorrelationIDs(criteria.NewCounter("$q/"))
}

func newBindings() *binding.Context {
	return binding.New(
		binding.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		binding.WithTokens(binding.NewFixedGenerator("ctx-1", "ctx-2", "ctx-3")),
	)
}
