package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populateCache(t *testing.T) string {
	t.Helper()
	path := writeCUE(t, "doc.cue", andOverOrDoc)
	db := filepath.Join(t.TempDir(), "cache.db")

	for _, form := range []string{"dnf", "cnf"} {
		_, err := execute(NewNormalizeCommand(&RootOptions{Format: "text"}), path, "--db", db, "--form", form)
		require.NoError(t, err)
	}
	return db
}

func TestHistory_Lists(t *testing.T) {
	db := populateCache(t)

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, out, "CNF 2: (a = 1 OR b = 2) AND c = 3")
	assert.Contains(t, out, "DNF 2: (c = 3 AND a = 1) OR (c = 3 AND b = 2)")
}

func TestHistory_FormFilterJSON(t *testing.T) {
	db := populateCache(t)

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", db, "--form", "dnf")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "DNF", resp.Data[0].Form)
	assert.Len(t, resp.Data[0].Fingerprint, 64)
}

func TestHistory_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cache.db")
	path := writeCUE(t, "doc.cue", andOverOrDoc)
	// An over-budget document opens the cache without writing to it.
	_, err := execute(NewNormalizeCommand(&RootOptions{Format: "text"}), path, "--db", db, "--max-clauses", "1")
	require.Error(t, err)

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No cached normalizations.\n", out)
}

func TestHistory_MissingDatabase(t *testing.T) {
	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "database not found")
}

func TestHistory_RequiresDB(t *testing.T) {
	_, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
}

func TestShortFingerprint(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortFingerprint("0123456789abcdef"))
	assert.Equal(t, "abc", shortFingerprint("abc"))
}
