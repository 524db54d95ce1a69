package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const andOverOrDoc = `
name: "and_over_or"
columns: {a: "integer", b: "integer", c: "integer"}
criteria: and: [
	{or: [
		{compare: {left: "a", op: "=", right: 1}},
		{compare: {left: "b", op: "=", right: 2}},
	]},
	{compare: {left: "c", op: "=", right: 3}},
]
`

const correlatedDoc = `
name: "correlated"
columns: {a: "integer", b: "integer"}
criteria: or: [
	{quantified: {left: "a", op: ">", quantifier: "all", query: "SELECT x FROM lim"}},
	{and: [
		{exists: {query: "SELECT 1 FROM flags"}},
		{in_list: {expr: "b", values: [1, 2]}},
	]},
]
`

// writeCUE writes content to name in a fresh temp directory and returns
// the file path.
func writeCUE(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args, returning stdout and the command error.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
