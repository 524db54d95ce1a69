package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/critnf/internal/criteria"
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

func testIDs() criteria.Option {
	return criteria.WithCorrelationIDs(criteria.NewCounter("$c/"))
}

func TestCompileDocumentBasic(t *testing.T) {
	doc, err := CompileString(`
		name: "adults named b"
		columns: { age: "integer", name: "string" }
		criteria: and: [
			{compare: {left: "age", op: ">=", right: 18}},
			{like: {expr: "name", pattern: {lit: "b%"}, ci: true}},
		]
	`, "basic.cue", testIDs())
	require.NoError(t, err)

	assert.Equal(t, "adults named b", doc.Name)
	assert.Equal(t, map[string]ir.Type{"age": ir.TypeInteger, "name": ir.TypeString}, doc.Columns)
	assert.Equal(t, "age >= 18 AND name ILIKE 'b%'", doc.Criteria.String())

	and := doc.Criteria.(*criteria.CompoundCriteria)
	cmp := and.Child(0).(*criteria.CompareCriteria)
	assert.Equal(t, ir.TypeInteger, cmp.Left.Type())
}

func TestCompileDocumentAllKinds(t *testing.T) {
	doc, err := CompileString(`
		criteria: or: [
			{compare: {left: {col: "a", group: "t"}, op: "<>", right: {lit: "x"}}},
			{quantified: {left: "a", op: ">", quantifier: "all", query: "SELECT b FROM u", columns: ["b"]}},
			{between: {expr: "a", lower: 1, upper: 2, not: true}},
			{like: {expr: "s", pattern: {lit: "a!%"}, escape: "!", mode: "SIMILAR TO", not: true}},
			{isnull: {expr: "a", not: true}},
			{distinct: {left: "g1", right: "g2"}},
			{in_list: {expr: "a", values: [1, 2, null]}},
			{in_subquery: {expr: "a", query: "SELECT b FROM u", not: true}},
			{dependent_in: {expr: "a", value: "b", source: "dep/1"}},
			{exists: {query: "SELECT 1", evaluate: true}},
			{expr: {fn: "is_ok", args: ["a", true], type: "boolean"}},
			{not: {compare: {left: "a", op: "=", right: null}}},
		]
	`, "kinds.cue", testIDs())
	require.NoError(t, err)

	or := doc.Criteria.(*criteria.CompoundCriteria)
	require.Equal(t, 12, or.ChildCount())

	want := []string{
		"t.a <> 'x'",
		"a > ALL (SELECT b FROM u)",
		"a NOT BETWEEN 1 AND 2",
		"s NOT SIMILAR TO 'a!%' ESCAPE '!'",
		"a IS NOT NULL",
		"g1 IS DISTINCT FROM g2",
		"a IN (1, 2, NULL)",
		"a NOT IN (SELECT b FROM u)",
		"a IN (<dep/1>)",
		"EXISTS (SELECT 1)",
		"is_ok(a, TRUE)",
		"NOT (a = NULL)",
	}
	for i, w := range want {
		assert.Equal(t, w, or.Child(i).String(), "child %d", i)
	}

	quant := or.Child(1).(*criteria.SubqueryCompareCriteria)
	assert.Equal(t, "$c/1", quant.CorrelationID())
	assert.Equal(t, expr.NewQuery("SELECT b FROM u", "b"), quant.Subquery)

	exists := or.Child(9).(*criteria.ExistsCriteria)
	assert.True(t, exists.ShouldEvaluate)
	assert.Equal(t, "$c/3", exists.CorrelationID())
}

func TestCompileDocumentErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"missing criteria", `name: "x"`, "criteria"},
		{"two keys", `criteria: {compare: {left: "a", op: "=", right: 1}, isnull: {expr: "a"}}`, "criteria"},
		{"unknown kind", `criteria: frobnicate: {}`, "criteria.frobnicate"},
		{"not a struct", `criteria: "a = 1"`, "criteria"},
		{"empty and", `criteria: and: []`, "criteria.and"},
		{"missing operand", `criteria: compare: {left: "a", op: "="}`, "criteria.compare.right"},
		{"bad operator", `criteria: compare: {left: "a", op: "~", right: 1}`, "criteria.compare.op"},
		{"float constant", `criteria: compare: {left: "a", op: "=", right: 1.5}`, "criteria.compare.right"},
		{"bad quantifier", `criteria: quantified: {left: "a", op: "=", quantifier: "most", query: "q"}`, "criteria.quantified.quantifier"},
		{"bad escape", `criteria: like: {expr: "a", pattern: {lit: "x"}, escape: "ab"}`, "criteria.like.escape"},
		{"bad mode", `criteria: like: {expr: "a", pattern: {lit: "x"}, mode: "GLOB"}`, "criteria.like.mode"},
		{"bad column type", `columns: a: "float", criteria: isnull: expr: "a"`, "columns.a"},
		{"empty source", `criteria: dependent_in: {expr: "a", value: "b", source: ""}`, "criteria.dependent_in.source"},
		{"bad operand struct", `criteria: isnull: expr: {nope: 1}`, "criteria.isnull.expr"},
		{"nested path", `criteria: or: [{isnull: {expr: "a"}}, {not: {bogus: 1}}]`, "criteria.or[1].not.bogus"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileString(tt.src, "bad.cue")
			require.Error(t, err)

			var cerr *CompileError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.field, cerr.Field)
		})
	}
}

func TestCompileDocumentCUEError(t *testing.T) {
	_, err := CompileString(`criteria: {`, "syntax.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax.cue")
}

func TestCompileCriteriaNode(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`pred: in_list: {expr: "Age", values: [3, 1, 3]}`)
	require.NoError(t, v.Err())

	c, err := CompileCriteria(v.LookupPath(cue.ParsePath("pred")), map[string]ir.Type{"age": ir.TypeInteger})
	require.NoError(t, err)

	set := c.(*criteria.SetCriteria)
	assert.True(t, set.AllConstants())
	assert.Len(t, set.Values(), 2, "constant sets deduplicate")
	assert.Equal(t, ir.TypeInteger, set.Expr.Type())
}

func TestCompileError_Format(t *testing.T) {
	err := &CompileError{Field: "criteria", Message: "criteria is required"}
	assert.Equal(t, "criteria: criteria is required", err.Error())
}
