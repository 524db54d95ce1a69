package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

func TestValidate_Compilable(t *testing.T) {
	pred := criteria.And(
		cmp(intCol("age"), criteria.OpGT, num(1)),
		criteria.Or(like(strCol("name"), "a%"), criteria.NewIsNullCriteria(intCol("age"))),
	)

	result := Validate(pred, nil)
	assert.True(t, result.Compilable)
	assert.Empty(t, result.Problems)
	assert.Empty(t, result.Warnings)
}

func TestValidate_Nil(t *testing.T) {
	result := Validate(nil, nil)
	assert.True(t, result.Compilable)
	assert.NotNil(t, result.Problems)
	assert.NotNil(t, result.Warnings)
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	ids := testIDs()
	all, err := criteria.NewSubqueryCompareCriteria(intCol("age"), criteria.OpGT, expr.NewQuery("SELECT 1"), criteria.QuantAll, ids)
	require.NoError(t, err)

	badPattern := like(strCol("name"), "x!")
	badPattern.SetEscapeChar('!')

	pred := criteria.Or(
		all,
		criteria.NewIsDistinctCriteria(expr.NewGroupSymbol("a"), expr.NewGroupSymbol("b")),
		criteria.NewDependentSetCriteria(intCol("age"), intCol("age"), "dep/1"),
		badPattern,
		cmp(intCol("bad name"), criteria.OpEQ, num(1)),
		criteria.NewSetCriteria(intCol("age"), expr.NewConstant(ir.DArray{ir.DInt(1)})),
	)

	result := Validate(pred, nil)
	assert.False(t, result.Compilable)
	assert.Len(t, result.Problems, 6)

	// Compile fails on the first of them.
	_, _, err = NewCompiler().CompileWhere(t.Context(), pred)
	assert.Error(t, err)
}

func TestValidate_BindingsResolveProblems(t *testing.T) {
	all, err := criteria.NewSubqueryCompareCriteria(intCol("age"), criteria.OpGT, expr.NewQuery("SELECT 1"), criteria.QuantAll, testIDs())
	require.NoError(t, err)
	dep := criteria.NewDependentSetCriteria(intCol("age"), intCol("age"), "dep/1")
	pred := criteria.And(all, dep)

	assert.False(t, Validate(pred, nil).Compilable)

	b := newBindings()
	require.NoError(t, b.BindValues(all.CorrelationID(), ir.DInt(1)))
	require.NoError(t, b.BindValues("dep/1", ir.DInt(2)))

	result := Validate(pred, b)
	assert.True(t, result.Compilable, "problems: %v", result.Problems)

	_, _, err = NewCompiler(WithBindings(b)).CompileWhere(t.Context(), pred)
	assert.NoError(t, err)
}

func TestValidate_NullWarnings(t *testing.T) {
	null := expr.NewConstant(ir.DNull{})
	notIn := criteria.NewSetCriteria(intCol("age"), num(1), null)
	notIn.SetNegated(true)

	result := Validate(criteria.And(
		cmp(intCol("age"), criteria.OpEQ, null),
		notIn,
		criteria.NewSetCriteria(intCol("age"), null),
	), nil)

	assert.True(t, result.Compilable)
	assert.Len(t, result.Warnings, 2)
}
