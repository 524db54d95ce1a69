package expr

import (
	"slices"

	"github.com/roach88/critnf/internal/ir"
)

// QueryCommand is an opaque, clonable sub-plan held by subquery predicates.
// Predicates never interpret its contents; they only store, clone, compare,
// and forward it.
type QueryCommand interface {
	Clone() QueryCommand
	Equal(other QueryCommand) bool
	Canonical() ir.DObject
	String() string
}

// Query is the QueryCommand used by this module: SQL text plus the names of
// the columns it projects.
type Query struct {
	Text    string
	Columns []string
}

// NewQuery creates a query command from SQL text.
func NewQuery(text string, columns ...string) *Query {
	return &Query{Text: text, Columns: columns}
}

func (q *Query) Clone() QueryCommand {
	return &Query{Text: q.Text, Columns: slices.Clone(q.Columns)}
}

func (q *Query) Equal(other QueryCommand) bool {
	o, ok := other.(*Query)
	return ok && q.Text == o.Text && slices.Equal(q.Columns, o.Columns)
}

func (q *Query) Canonical() ir.DObject {
	cols := make(ir.DArray, len(q.Columns))
	for i, c := range q.Columns {
		cols[i] = ir.DString(c)
	}
	return ir.DObject{
		"kind":    ir.DString("query"),
		"text":    ir.DString(q.Text),
		"columns": cols,
	}
}

func (q *Query) String() string { return q.Text }

// CloneQuery clones a possibly-nil query command.
func CloneQuery(q QueryCommand) QueryCommand {
	if q == nil {
		return nil
	}
	return q.Clone()
}

// EqualQuery compares two possibly-nil query commands.
func EqualQuery(a, b QueryCommand) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// CanonicalQuery returns the canonical form of a possibly-nil query.
func CanonicalQuery(q QueryCommand) ir.Datum {
	if q == nil {
		return ir.DNull{}
	}
	return q.Canonical()
}
