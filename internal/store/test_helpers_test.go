package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/critnf/internal/ir"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createPeopleTable creates a fixture table "people" with five rows.
//
//	id | name    | age  | active
//	1  | alice   | 30   | 1
//	2  | Bob     | 17   | 0
//	3  | carol   | NULL | 1
//	4  | dave_99 | 45   | 0
//	5  | NULL    | 22   | 1
func createPeopleTable(t *testing.T, s *Store) {
	t.Helper()
	ctx := t.Context()
	require.NoError(t, s.CreateTable(ctx, "people", []ColumnDef{
		{Name: "name", Type: ir.TypeString},
		{Name: "age", Type: ir.TypeInteger},
		{Name: "active", Type: ir.TypeBoolean},
	}))
	_, err := s.InsertAll(ctx, "people", []Row{
		{"name": ir.DString("alice"), "age": ir.DInt(30), "active": ir.DBool(true)},
		{"name": ir.DString("Bob"), "age": ir.DInt(17), "active": ir.DBool(false)},
		{"name": ir.DString("carol"), "age": ir.DNull{}, "active": ir.DBool(true)},
		{"name": ir.DString("dave_99"), "age": ir.DInt(45), "active": ir.DBool(false)},
		{"age": ir.DInt(22), "active": ir.DBool(true)},
	})
	require.NoError(t, err)
}
