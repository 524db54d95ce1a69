package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/critnf/internal/ir"
)

// ColumnDef declares one column of a fixture table.
type ColumnDef struct {
	Name string
	Type ir.Type
}

// Row is one fixture row keyed by column name. Missing columns insert NULL.
type Row map[string]ir.Datum

// sqlType maps a datum type to its SQLite storage class.
func sqlType(t ir.Type) (string, error) {
	switch t {
	case ir.TypeInteger, ir.TypeBoolean:
		return "INTEGER", nil
	case ir.TypeString:
		return "TEXT", nil
	default:
		return "", fmt.Errorf("column type %s has no SQLite mapping", t)
	}
}

// CreateTable creates a fixture table with an implicit "id INTEGER PRIMARY
// KEY" column followed by the given columns. Identifiers are validated, not
// quoted.
func (s *Store) CreateTable(ctx context.Context, table string, columns []ColumnDef) error {
	if !IsIdentifier(table) {
		return fmt.Errorf("create table: invalid table name %q", table)
	}
	if len(columns) == 0 {
		return fmt.Errorf("create table %s: no columns", table)
	}

	defs := make([]string, 0, len(columns)+1)
	defs = append(defs, "id INTEGER PRIMARY KEY")
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		name := strings.ToLower(col.Name)
		if !IsIdentifier(name) || name == "id" {
			return fmt.Errorf("create table %s: invalid column name %q", table, col.Name)
		}
		if seen[name] {
			return fmt.Errorf("create table %s: duplicate column %q", table, col.Name)
		}
		seen[name] = true

		typ, err := sqlType(col.Type)
		if err != nil {
			return fmt.Errorf("create table %s: column %s: %w", table, col.Name, err)
		}
		defs = append(defs, name+" "+typ)
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// Insert adds one row to a fixture table and returns its id.
// Column order in the statement is sorted so the SQL is deterministic.
func (s *Store) Insert(ctx context.Context, table string, row Row) (int64, error) {
	if !IsIdentifier(table) {
		return 0, fmt.Errorf("insert: invalid table name %q", table)
	}
	if len(row) == 0 {
		res, err := s.db.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", table))
		if err != nil {
			return 0, fmt.Errorf("insert into %s: %w", table, err)
		}
		return res.LastInsertId()
	}

	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := make([]string, len(names))
	marks := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		if !IsIdentifier(name) {
			return 0, fmt.Errorf("insert into %s: invalid column name %q", table, name)
		}
		v, err := ir.ToGo(row[name])
		if err != nil {
			return 0, fmt.Errorf("insert into %s: column %s: %w", table, name, err)
		}
		cols[i] = strings.ToLower(name)
		marks[i] = "?"
		args[i] = v
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}
	return id, nil
}

// InsertAll inserts rows in order and returns their ids.
func (s *Store) InsertAll(ctx context.Context, table string, rows []Row) ([]int64, error) {
	ids := make([]int64, 0, len(rows))
	for i, row := range rows {
		id, err := s.Insert(ctx, table, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SelectIDs runs "SELECT id FROM table WHERE where ORDER BY id ASC" and
// returns the matching ids. An empty where selects every row.
//
// Returns an empty slice (not nil) if no rows match.
func (s *Store) SelectIDs(ctx context.Context, table, where string, params ...any) ([]int64, error) {
	if !IsIdentifier(table) {
		return nil, fmt.Errorf("select: invalid table name %q", table)
	}

	query := "SELECT id FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return ids, nil
}
