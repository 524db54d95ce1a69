package criteria

import (
	"github.com/roach88/critnf/internal/expr"
	"github.com/roach88/critnf/internal/ir"
)

// Criteria is a sealed interface over all predicate node kinds.
// Every Criteria is a boolean-typed, resolved Expression.
type Criteria interface {
	expr.Expression

	// IsResolved always reports true; resolution happens before a
	// predicate tree is built.
	IsResolved() bool

	criteria() // Sealed - only types in this package implement it
}

// node carries the behavior shared by every variant.
type node struct{}

func (node) criteria()        {}
func (node) Type() ir.Type    { return ir.TypeBoolean }
func (node) IsResolved() bool { return true }

// Clone deep-copies a possibly-nil predicate.
func Clone(c Criteria) Criteria {
	if c == nil {
		return nil
	}
	return c.Clone().(Criteria)
}

// CloneAll deep-copies every element of list into a new slice.
func CloneAll(list []Criteria) []Criteria {
	if list == nil {
		return nil
	}
	out := make([]Criteria, len(list))
	for i, c := range list {
		out[i] = Clone(c)
	}
	return out
}

// Equal compares two possibly-nil predicates structurally.
func Equal(a, b Criteria) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Fingerprint returns the structural hash code of a predicate.
// Equal predicates always share a fingerprint. Correlation ids do not
// contribute.
func Fingerprint(c Criteria) string {
	if c == nil {
		return ir.MustFingerprint(ir.DomainCriteria, ir.DNull{})
	}
	return ir.MustFingerprint(ir.DomainCriteria, c.Canonical())
}

// CanonicalJSON returns the canonical JSON encoding of a predicate tree.
func CanonicalJSON(c Criteria) ([]byte, error) {
	if c == nil {
		return ir.MarshalCanonical(ir.DNull{})
	}
	return ir.MarshalCanonical(c.Canonical())
}

func canonicalNode(kind string, fields ir.DObject) ir.DObject {
	fields["kind"] = ir.DString(kind)
	return fields
}

func canonicalChildren(list []Criteria) ir.DArray {
	out := make(ir.DArray, len(list))
	for i, c := range list {
		if c == nil {
			out[i] = ir.DNull{}
			continue
		}
		out[i] = c.Canonical()
	}
	return out
}

func equalChildren(a, b []Criteria) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func notWord(negated bool) string {
	if negated {
		return "NOT "
	}
	return ""
}

func operandString(e expr.Expression) string {
	if e == nil {
		return "NULL"
	}
	return e.String()
}

func queryString(q expr.QueryCommand) string {
	if q == nil {
		return ""
	}
	return q.String()
}
