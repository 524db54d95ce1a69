package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSnapshot_Canonical(t *testing.T) {
	r := NewResult()
	r.Input = "a < 1"
	r.Forms = []FormOutcome{
		{Form: "DNF", Output: "a < 1", Clauses: 1, Rows: []int64{}},
		{Form: "CNF", Output: "a < 1", Clauses: 1, Error: ErrorExpansionLimit},
	}
	r.Rows = []int64{}

	data, err := MarshalSnapshot("tiny", r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"forms":[{"changed":false,"clauses":1,"form":"DNF","output":"a < 1","rows":[]},`+
			`{"changed":false,"clauses":1,"error":"expansion_limit","form":"CNF","output":"a < 1"}],`+
			`"input":"a < 1","rows":[],"scenario_name":"tiny"}`,
		string(data))
}

func TestMarshalSnapshot_NoTable(t *testing.T) {
	r := NewResult()
	r.Input = "x"
	data, err := MarshalSnapshot("none", r)
	require.NoError(t, err)
	assert.Equal(t, `{"forms":[],"input":"x","scenario_name":"none"}`, string(data))
}
