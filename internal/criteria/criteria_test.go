package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// allKinds returns one instance of every predicate kind.
func allKinds(opts ...Option) []Criteria {
	sqc, err := NewSubqueryCompareCriteria(col("a"), OpLT, query("SELECT b FROM t"), QuantAll, opts...)
	if err != nil {
		panic(err)
	}
	match := NewMatchCriteria(col("s"), str("a!%%"), opts...)
	match.SetEscapeChar('!')
	return []Criteria{
		eq("a", 1),
		sqc,
		NewBetweenCriteria(col("a"), num(1), num(10)),
		match,
		NewIsNullCriteria(col("a")),
		NewIsDistinctCriteria(groupSym("g1"), groupSym("g2")),
		NewSetCriteria(col("a"), num(1), num(2), num(3)),
		NewSubquerySetCriteria(col("a"), query("SELECT b FROM t"), opts...),
		NewDependentSetCriteria(col("a"), col("b"), "dep/1"),
		NewExistsCriteria(query("SELECT 1 FROM t"), opts...),
		NewExpressionCriteria(expr.NewFunction("is_valid", ir.TypeBoolean, col("a"))),
		Not(eq("a", 1)),
		Or(eq("a", 1), And(eq("b", 2), eq("c", 3))),
	}
}

// TestCriteria_TypeAndResolved tests the shared Expression contract.
func TestCriteria_TypeAndResolved(t *testing.T) {
	for _, c := range allKinds(testIDs()) {
		assert.Equal(t, ir.TypeBoolean, c.Type(), "%T", c)
		assert.True(t, c.IsResolved(), "%T", c)
	}
}

// TestCriteria_CloneIsEqualAndIndependent tests deep copy for every kind.
func TestCriteria_CloneIsEqualAndIndependent(t *testing.T) {
	for _, c := range allKinds(testIDs()) {
		clone := Clone(c)
		require.NotSame(t, c, clone)
		assert.True(t, c.Equal(clone), "%T", c)
		assert.True(t, clone.Equal(c), "%T", c)
		assert.Equal(t, Fingerprint(c), Fingerprint(clone), "%T", c)
		assert.Equal(t, c.String(), clone.String())
	}
}

// TestCriteria_CloneMutationDoesNotLeak tests operand and child isolation.
func TestCriteria_CloneMutationDoesNotLeak(t *testing.T) {
	orig := And(eq("a", 1), betweenInts(col("b"), 1, 2))
	clone := Clone(orig).(*CompoundCriteria)

	clone.Child(0).(*CompareCriteria).Left.(*expr.Column).Name = "z"
	clone.Child(1).(*BetweenCriteria).Lower.(*expr.Constant).Value = ir.DInt(99)
	clone.AddChild(eq("c", 3))
	require.NoError(t, clone.SetOperator(OpOR))

	assert.Equal(t, "a = 1 AND b BETWEEN 1 AND 2", orig.String())
}

// betweenInts builds e BETWEEN lo AND hi.
func betweenInts(e expr.Expression, lo, hi int64) *BetweenCriteria {
	return NewBetweenCriteria(e, num(lo), num(hi))
}

// TestCriteria_CorrelationIDPreservedByClone tests id stability.
func TestCriteria_CorrelationIDPreservedByClone(t *testing.T) {
	ids := NewCounter("$t/")
	for _, c := range allKinds(WithCorrelationIDs(ids)) {
		cc, ok := c.(Correlated)
		if !ok {
			continue
		}
		assert.NotEmpty(t, cc.CorrelationID())
		assert.Equal(t, cc.CorrelationID(), Clone(cc).(Correlated).CorrelationID(), "%T", c)
	}
	assert.Equal(t, int64(3), ids.Current())
}

// TestCriteria_CorrelationIDsIgnoredByEquality tests that two sites with
// the same structure compare equal.
func TestCriteria_CorrelationIDsIgnoredByEquality(t *testing.T) {
	ids := NewCounter("$t/")
	a := NewExistsCriteria(query("SELECT 1"), WithCorrelationIDs(ids))
	b := NewExistsCriteria(query("SELECT 1"), WithCorrelationIDs(ids))

	assert.Equal(t, "$t/1", a.CorrelationID())
	assert.Equal(t, "$t/2", b.CorrelationID())
	assert.True(t, a.Equal(b))
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

// TestCriteria_DefaultIDsAreUnique tests the process-scoped counter.
func TestCriteria_DefaultIDsAreUnique(t *testing.T) {
	a := NewExistsCriteria(query("SELECT 1"))
	b := NewSubquerySetCriteria(col("x"), query("SELECT 1"))

	assert.NotEqual(t, a.CorrelationID(), b.CorrelationID())
	assert.Contains(t, a.CorrelationID(), DefaultIDPrefix)
	assert.GreaterOrEqual(t, ProcessIDs().Current(), int64(2))
}

// TestDependentSetCriteria_EqualityUsesSource tests source id identity.
func TestDependentSetCriteria_EqualityUsesSource(t *testing.T) {
	a := NewDependentSetCriteria(col("a"), col("b"), "dep/1")
	b := NewDependentSetCriteria(col("a"), col("b"), "dep/2")

	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(NewDependentSetCriteria(col("A"), col("b"), "dep/1")))
}

// TestCriteria_Inequality tests that each structural field matters.
func TestCriteria_Inequality(t *testing.T) {
	assert.False(t, eq("a", 1).Equal(eq("a", 2)))
	assert.False(t, eq("a", 1).Equal(Compare(col("a"), OpNE, num(1))))
	assert.False(t, eq("a", 1).Equal(NewIsNullCriteria(col("a"))))

	neg := NewIsNullCriteria(col("a"))
	neg.SetNegated(true)
	assert.False(t, NewIsNullCriteria(col("a")).Equal(neg))

	assert.False(t, And(eq("a", 1), eq("b", 2)).Equal(And(eq("b", 2), eq("a", 1))))
	assert.False(t, And(eq("a", 1), eq("b", 2)).Equal(Or(eq("a", 1), eq("b", 2))))

	m1 := NewMatchCriteria(col("s"), str("a%"))
	m2 := NewMatchCriteria(col("s"), str("a%"))
	m2.SetEscapeChar('\\')
	assert.False(t, m1.Equal(m2))
}

// TestSetCriteria_ConstantSetSemantics tests dedup and order-insensitive equality.
func TestSetCriteria_ConstantSetSemantics(t *testing.T) {
	a := NewSetCriteria(col("x"), num(1), num(2), num(2), num(3))
	b := NewSetCriteria(col("x"), num(3), num(1), num(2))

	assert.True(t, a.AllConstants())
	assert.Len(t, a.Values(), 3)
	assert.Equal(t, "x IN (1, 2, 3)", a.String())
	assert.True(t, a.Equal(b))
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.False(t, a.Equal(NewSetCriteria(col("x"), num(1), num(2))))
}

// TestSetCriteria_OrderedSequence tests non-constant lists.
func TestSetCriteria_OrderedSequence(t *testing.T) {
	a := NewSetCriteria(col("x"), col("y"), num(1))
	b := NewSetCriteria(col("x"), num(1), col("y"))

	assert.False(t, a.AllConstants())
	assert.False(t, a.Equal(b))

	clone := Clone(a).(*SetCriteria)
	clone.Values()[0].(*expr.Column).Name = "changed"
	assert.Equal(t, "y", a.Values()[0].String())
}

// TestSetCriteria_ConstantCloneIsIndependent tests that constant sets
// do not share value nodes with their clones.
func TestSetCriteria_ConstantCloneIsIndependent(t *testing.T) {
	a := NewSetCriteria(col("x"), num(1), num(2))
	require.True(t, a.AllConstants())

	clone := Clone(a).(*SetCriteria)
	clone.Values()[0].(*expr.Constant).Value = ir.DInt(99)

	assert.Equal(t, "x IN (1, 2)", a.String())
	assert.Equal(t, "x IN (99, 2)", clone.String())
}

// TestToDNF_SetLeafMutationDoesNotLeak tests mutating an IN-list leaf of
// a rewritten tree.
func TestToDNF_SetLeafMutationDoesNotLeak(t *testing.T) {
	in := NewSetCriteria(col("x"), num(1), num(2))
	input := And(in, Or(eq("y", 1), eq("y", 2)))
	snapshot := Clone(input)

	got := ToDisjunctiveNormalForm(input)
	require.NotSame(t, input, got)

	clause := got.(*CompoundCriteria).Child(0).(*CompoundCriteria)
	leaf := clause.Child(0).(*SetCriteria)
	leaf.Values()[0].(*expr.Constant).Value = ir.DInt(99)

	assert.True(t, snapshot.Equal(input), "input changed to %s", input)
	assert.Equal(t, "x IN (1, 2)", in.String())
}

// TestSetCriteria_SetValues tests replacing the list.
func TestSetCriteria_SetValues(t *testing.T) {
	c := NewSetCriteria(col("x"), num(1))
	c.SetValues([]expr.Expression{str("a"), str("a"), str("b")}, true)
	assert.Equal(t, "x IN ('a', 'b')", c.String())

	c.SetValues([]expr.Expression{str("a"), str("a")}, false)
	assert.Len(t, c.Values(), 2)
}

// TestCompoundCriteria_Construction tests validation and child edits.
func TestCompoundCriteria_Construction(t *testing.T) {
	_, err := NewCompoundCriteria(LogicalOp(7), eq("a", 1))
	assert.True(t, IsInvalidArgument(err))

	_, err = NewCompoundCriteria(OpAND)
	assert.True(t, IsInvalidArgument(err))

	c, err := NewCompoundCriteria(OpAND, eq("a", 1), eq("b", 2))
	require.NoError(t, err)

	err = c.SetOperator(LogicalOp(-1))
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, OpAND, c.Operator(), "failed SetOperator leaves state unchanged")

	require.NoError(t, c.RemoveChild(0))
	assert.Equal(t, "b = 2", c.String())
	assert.True(t, IsInvalidArgument(c.RemoveChild(0)))

	assert.True(t, IsInvalidArgument(c.SetChildren(nil)))
	require.NoError(t, c.SetChildren([]Criteria{eq("x", 1), eq("y", 2)}))
	c.SetChild(1, eq("z", 3))
	assert.Equal(t, "x = 1 AND z = 3", c.String())
}

// TestCompareCriteria_InvalidOperator tests fail-fast construction.
func TestCompareCriteria_InvalidOperator(t *testing.T) {
	_, err := NewCompareCriteria(col("a"), CompareOp(42), num(1))
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "INVALID_ARGUMENT")

	c := eq("a", 1)
	assert.True(t, IsInvalidArgument(c.SetOperator(CompareOp(6))))
	assert.Equal(t, OpEQ, c.Operator())

	_, err = CompareOpFromCode(-1)
	assert.True(t, IsInvalidArgument(err))
	op, err := CompareOpFromCode(3)
	require.NoError(t, err)
	assert.Equal(t, OpGT, op)

	_, err = NewSubqueryCompareCriteria(col("a"), OpEQ, query("SELECT 1"), Quantifier(9))
	assert.True(t, IsInvalidArgument(err))
}

// TestCriteria_String tests SQL-like rendering.
func TestCriteria_String(t *testing.T) {
	between := NewBetweenCriteria(col("x"), num(1), num(2))
	between.SetNegated(true)

	like := NewMatchCriteria(col("name"), str("a%"))
	like.SetEscapeChar('\\')

	notNull := NewIsNullCriteria(col("x"))
	notNull.SetNegated(true)

	distinct := NewIsDistinctCriteria(groupSym("g1"), groupSym("g2"))

	ilike := NewMatchCriteria(col("name"), str("A_"))
	ilike.SetCaseInsensitive(true)
	ilike.SetNegated(true)

	similar := NewMatchCriteria(col("name"), str("(a|b)%"))
	require.NoError(t, similar.SetMode(ModeSimilar))

	cases := []struct {
		c    Criteria
		want string
	}{
		{eq("x", 5), "x = 5"},
		{between, "x NOT BETWEEN 1 AND 2"},
		{like, `name LIKE 'a%' ESCAPE '\'`},
		{ilike, "name NOT ILIKE 'A_'"},
		{similar, "name SIMILAR TO '(a|b)%'"},
		{notNull, "x IS NOT NULL"},
		{distinct, "g1 IS DISTINCT FROM g2"},
		{NewSetCriteria(col("x"), str("it's")), "x IN ('it''s')"},
		{NewExistsCriteria(query("SELECT 1 FROM t"), testIDs()), "EXISTS (SELECT 1 FROM t)"},
		{NewSubquerySetCriteria(col("x"), query("SELECT id FROM t"), testIDs()), "x IN (SELECT id FROM t)"},
		{NewDependentSetCriteria(col("x"), col("y"), "dep/1"), "x IN (<dep/1>)"},
		{Not(eq("x", 5)), "NOT (x = 5)"},
		{Or(And(eq("a", 1), eq("b", 2)), eq("c", 3)), "(a = 1 AND b = 2) OR c = 3"},
		{Not(Or(eq("a", 1), eq("b", 2))), "NOT (a = 1 OR b = 2)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.c.String())
	}
}

// TestCanonicalJSON tests that canonical encoding is stable.
func TestCanonicalJSON(t *testing.T) {
	got, err := CanonicalJSON(eq("a", 1))
	require.NoError(t, err)
	assert.Equal(t,
		`{"kind":"compare","left":{"group":"","kind":"column","name":"a"},"op":"=","right":{"kind":"constant","type":"integer","value":1}}`,
		string(got))

	null, err := CanonicalJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(null))
}

// TestOperators tests operator parsing and rendering.
func TestOperators(t *testing.T) {
	op, err := ParseCompareOp("!=")
	require.NoError(t, err)
	assert.Equal(t, OpNE, op)
	assert.Equal(t, "<>", op.String())
	assert.Equal(t, "CompareOp(9)", CompareOp(9).String())

	_, err = ParseCompareOp("~")
	assert.True(t, IsInvalidArgument(err))

	q, err := ParseQuantifier("any")
	require.NoError(t, err)
	assert.Equal(t, QuantSome, q)

	m, err := ParseMatchMode("regex")
	require.NoError(t, err)
	assert.Equal(t, ModeRegex, m)

	for _, mode := range []MatchMode{ModeLike, ModeSimilar, ModeRegex} {
		got, err := ParseMatchMode(mode.String())
		require.NoError(t, err, "mode %s", mode)
		assert.Equal(t, mode, got)
	}
	m, err = ParseMatchMode("similar to")
	require.NoError(t, err)
	assert.Equal(t, ModeSimilar, m)
	m, err = ParseMatchMode("like_regex")
	require.NoError(t, err)
	assert.Equal(t, ModeRegex, m)

	assert.Equal(t, OpOR, OpAND.Flip())
	lop, err := LogicalOpFromCode(2)
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, "LogicalOp(2)", lop.String())
}
