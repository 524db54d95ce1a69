package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeNormalize(t *testing.T, out string) []NormalizeOutput {
	t.Helper()
	var resp struct {
		Status string            `json:"status"`
		Data   []NormalizeOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestNormalize_DNF(t *testing.T) {
	path := writeCUE(t, "doc.cue", andOverOrDoc)

	out, err := execute(NewNormalizeCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)
	assert.Equal(t, "and_over_or [DNF, 2 clauses]\n  (c = 3 AND a = 1) OR (c = 3 AND b = 2)\n", out)
}

func TestNormalize_CNFUnchanged(t *testing.T) {
	path := writeCUE(t, "doc.cue", andOverOrDoc)

	out, err := execute(NewNormalizeCommand(&RootOptions{Format: "json"}), path, "--form", "cnf")
	require.NoError(t, err)

	results := decodeNormalize(t, out)
	require.Len(t, results, 1)
	assert.Equal(t, "CNF", results[0].Form)
	assert.Equal(t, "(a = 1 OR b = 2) AND c = 3", results[0].Output)
	assert.Equal(t, 2, results[0].Clauses)
	assert.False(t, results[0].Changed, "input is already CNF")
}

func TestNormalize_PushNegation(t *testing.T) {
	path := writeCUE(t, "doc.cue", `
criteria: not: or: [
	{compare: {left: "a", op: "=", right: 1}},
	{compare: {left: "b", op: "<", right: 2}},
]
`)

	out, err := execute(NewNormalizeCommand(&RootOptions{Format: "json"}), path, "--push-negation")
	require.NoError(t, err)

	results := decodeNormalize(t, out)
	require.Len(t, results, 1)
	assert.Equal(t, "a <> 1 AND b >= 2", results[0].Output)
	assert.True(t, results[0].Changed)
	assert.Equal(t, "", results[0].Name)
}

func TestNormalize_ExpansionLimit(t *testing.T) {
	path := writeCUE(t, "doc.cue", andOverOrDoc)

	out, err := execute(NewNormalizeCommand(&RootOptions{Format: "json"}), path, "--max-clauses", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	results := decodeNormalize(t, out)
	require.Len(t, results, 1)
	assert.Equal(t, "expansion_limit", results[0].Error)
	assert.Equal(t, results[0].Input, results[0].Output, "over-budget input is kept")
	assert.Equal(t, 1, results[0].Clauses)
	assert.False(t, results[0].Changed)
}

func TestNormalize_ExpansionLimitText(t *testing.T) {
	path := writeCUE(t, "doc.cue", andOverOrDoc)

	out, err := execute(NewNormalizeCommand(&RootOptions{Format: "text"}), path, "--max-clauses", "1")
	require.Error(t, err)
	assert.Contains(t, out, "(over clause budget, input kept)")
}

func TestNormalize_Cache(t *testing.T) {
	path := writeCUE(t, "doc.cue", andOverOrDoc)
	db := filepath.Join(t.TempDir(), "cache.db")

	out, err := execute(NewNormalizeCommand(&RootOptions{Format: "json"}), path, "--db", db)
	require.NoError(t, err)
	first := decodeNormalize(t, out)
	require.Len(t, first, 1)
	assert.False(t, first[0].Cached)

	out, err = execute(NewNormalizeCommand(&RootOptions{Format: "json"}), path, "--db", db)
	require.NoError(t, err)
	second := decodeNormalize(t, out)
	require.Len(t, second, 1)
	assert.True(t, second[0].Cached)
	assert.Equal(t, first[0].Output, second[0].Output)
	assert.Equal(t, first[0].Clauses, second[0].Clauses)
	assert.True(t, second[0].Changed)

	// The other form is a separate entry.
	out, err = execute(NewNormalizeCommand(&RootOptions{Format: "json"}), path, "--db", db, "--form", "cnf")
	require.NoError(t, err)
	assert.False(t, decodeNormalize(t, out)[0].Cached)
}

func TestNormalize_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.cue"), []byte(`documents: one: criteria: compare: {left: "a", op: "=", right: 1}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.cue"), []byte("documents: two: {\n"+andOverOrDoc+"\n}\n"), 0o644))

	out, err := execute(NewNormalizeCommand(&RootOptions{Format: "json"}), dir)
	require.NoError(t, err)

	results := decodeNormalize(t, out)
	require.Len(t, results, 2)
	assert.Equal(t, "and_over_or", results[0].Name)
	assert.Equal(t, "(c = 3 AND a = 1) OR (c = 3 AND b = 2)", results[0].Output)
	assert.Equal(t, "one", results[1].Name)
	assert.Equal(t, "a = 1", results[1].Output)
}

func TestNormalize_InvalidForm(t *testing.T) {
	path := writeCUE(t, "doc.cue", andOverOrDoc)

	_, err := execute(NewNormalizeCommand(&RootOptions{Format: "text"}), path, "--form", "anf")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestNormalize_MissingPath(t *testing.T) {
	out, err := execute(NewNormalizeCommand(&RootOptions{Format: "text"}), "/nonexistent/doc.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E005")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "(unnamed)", displayName(""))
	assert.Equal(t, "adults", displayName("adults"))
}
