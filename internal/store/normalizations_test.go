package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

func testCompare(name string, n int64) *criteria.CompareCriteria {
	return criteria.Compare(expr.NewColumn(name, ir.TypeInteger), criteria.OpEQ, expr.NewConstant(ir.DInt(n)))
}

func testRecord(t *testing.T, form criteria.Form) (Normalization, criteria.Criteria) {
	t.Helper()
	input := criteria.And(criteria.Or(testCompare("a", 1), testCompare("b", 2)), testCompare("c", 3))
	output := criteria.Normalize(input, form)
	rec, err := NewNormalization(form, input, output, criteria.CountClauses(output, form))
	require.NoError(t, err)
	return rec, input
}

func TestNewNormalization(t *testing.T) {
	rec, input := testRecord(t, criteria.DNF)

	assert.Equal(t, criteria.Fingerprint(input), rec.InputFingerprint)
	assert.Equal(t, "DNF", rec.Form)
	assert.Equal(t, 2, rec.Clauses)
	assert.Equal(t, "(c = 3 AND a = 1) OR (c = 3 AND b = 2)", rec.OutputText)
	assert.NotEqual(t, rec.InputFingerprint, rec.OutputFingerprint)
	assert.Contains(t, rec.InputJSON, `"kind":"compound"`)
}

func TestWriteReadNormalization(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()
	rec, input := testRecord(t, criteria.DNF)

	require.NoError(t, s.WriteNormalization(ctx, rec))

	got, ok, err := s.ReadNormalization(ctx, criteria.Fingerprint(input), criteria.DNF)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, got)

	_, ok, err = s.ReadNormalization(ctx, criteria.Fingerprint(input), criteria.CNF)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteNormalization_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()
	rec, _ := testRecord(t, criteria.DNF)

	require.NoError(t, s.WriteNormalization(ctx, rec))

	changed := rec
	changed.OutputText = "something else"
	require.NoError(t, s.WriteNormalization(ctx, changed))

	got, ok, err := s.ReadNormalization(ctx, rec.InputFingerprint, criteria.DNF)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec.OutputText, got.OutputText, "first write must stand")
}

func TestListNormalizations_Ordered(t *testing.T) {
	s := createTestStore(t)
	ctx := t.Context()

	empty, err := s.ListNormalizations(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	cnf, _ := testRecord(t, criteria.CNF)
	dnf, _ := testRecord(t, criteria.DNF)
	require.NoError(t, s.WriteNormalization(ctx, dnf))
	require.NoError(t, s.WriteNormalization(ctx, cnf))

	list, err := s.ListNormalizations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "CNF", list[0].Form)
	assert.Equal(t, "DNF", list[1].Form)
}
