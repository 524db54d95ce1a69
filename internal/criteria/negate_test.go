package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCompareCriteria_NegateRoundTrip tests the inverse operator table.
func TestCompareCriteria_NegateRoundTrip(t *testing.T) {
	cases := []struct {
		op      CompareOp
		negated CompareOp
	}{
		{OpEQ, OpNE},
		{OpNE, OpEQ},
		{OpLT, OpGE},
		{OpGE, OpLT},
		{OpGT, OpLE},
		{OpLE, OpGT},
	}
	for _, tc := range cases {
		t.Run(tc.op.String(), func(t *testing.T) {
			c := Compare(col("a"), tc.op, num(1))

			require.NoError(t, c.Negate())
			assert.Equal(t, tc.negated, c.Operator())

			require.NoError(t, c.Negate())
			assert.Equal(t, tc.op, c.Operator())
		})
	}
}

// TestSubqueryCompareCriteria_QuantifierFlip tests ALL<->SOME on negation.
func TestSubqueryCompareCriteria_QuantifierFlip(t *testing.T) {
	c, err := NewSubqueryCompareCriteria(col("a"), OpGT, query("SELECT b FROM t"), QuantAll, testIDs())
	require.NoError(t, err)

	require.NoError(t, c.Negate())
	assert.Equal(t, QuantSome, c.Quantifier())
	assert.Equal(t, OpLE, c.Operator())
	assert.Equal(t, "a <= SOME (SELECT b FROM t)", c.String())

	require.NoError(t, c.Negate())
	assert.Equal(t, QuantAll, c.Quantifier())
	assert.Equal(t, OpGT, c.Operator())
}

// TestSubqueryCompareCriteria_NoneQuantifierUnchanged tests a scalar subquery.
func TestSubqueryCompareCriteria_NoneQuantifierUnchanged(t *testing.T) {
	c, err := NewSubqueryCompareCriteria(col("a"), OpEQ, query("SELECT max(b) FROM t"), QuantNone, testIDs())
	require.NoError(t, err)

	require.NoError(t, c.Negate())
	assert.Equal(t, QuantNone, c.Quantifier())
	assert.Equal(t, OpNE, c.Operator())
	assert.Equal(t, "a <> (SELECT max(b) FROM t)", c.String())
}

// TestNegate_TogglesFlag tests the flag-toggling kinds.
func TestNegate_TogglesFlag(t *testing.T) {
	type flagged interface {
		Negatable
		IsNegated() bool
	}
	preds := []flagged{
		NewBetweenCriteria(col("a"), num(1), num(2)),
		NewMatchCriteria(col("s"), str("a%")),
		NewIsNullCriteria(col("a")),
		NewIsDistinctCriteria(groupSym("g1"), groupSym("g2")),
		NewSetCriteria(col("a"), num(1)),
		NewSubquerySetCriteria(col("a"), query("SELECT 1"), testIDs()),
	}
	for _, p := range preds {
		assert.False(t, p.IsNegated())
		require.NoError(t, p.Negate())
		assert.True(t, p.IsNegated(), "%T", p)
		require.NoError(t, p.Negate())
		assert.False(t, p.IsNegated(), "%T", p)
	}
}

// TestDependentSetCriteria_ForbiddenNegation tests SetNegated and Negate.
func TestDependentSetCriteria_ForbiddenNegation(t *testing.T) {
	c := NewDependentSetCriteria(col("a"), col("b"), "dep/1")

	err := c.SetNegated(true)
	require.Error(t, err)
	assert.True(t, IsUnsupported(err))
	assert.False(t, c.IsNegated())

	assert.NoError(t, c.SetNegated(false))

	err = c.Negate()
	assert.True(t, IsUnsupported(err))
	assert.False(t, CanNegate(c))
}

// TestCanNegate tests the capability check across kinds.
func TestCanNegate(t *testing.T) {
	assert.True(t, CanNegate(eq("a", 1)))
	assert.True(t, CanNegate(NewIsNullCriteria(col("a"))))
	assert.False(t, CanNegate(NewExistsCriteria(query("SELECT 1"), testIDs())))
	assert.False(t, CanNegate(NewExpressionCriteria(boolConst(true))))
	assert.False(t, CanNegate(Not(eq("a", 1))))
	assert.False(t, CanNegate(And(eq("a", 1), eq("b", 2))))
}

// TestNegateOrWrap tests in-place negation and the NOT fallback.
func TestNegateOrWrap(t *testing.T) {
	c := eq("a", 1)
	got := NegateOrWrap(c)
	assert.Same(t, c, got)
	assert.Equal(t, OpNE, c.Operator())

	exists := NewExistsCriteria(query("SELECT 1"), testIDs())
	wrapped, ok := NegateOrWrap(exists).(*NotCriteria)
	require.True(t, ok)
	assert.Same(t, exists, wrapped.Child)

	dep := NewDependentSetCriteria(col("a"), col("b"), "dep/1")
	_, ok = NegateOrWrap(dep).(*NotCriteria)
	assert.True(t, ok)
}
