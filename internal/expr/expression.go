// Package expr defines the operand contract consumed by predicates.
//
// Every predicate operand is an Expression: it has a static result type,
// a deep Clone, structural Equal, and a canonical form from which its
// fingerprint (hash code) is derived. Resolution and type checking happen
// upstream; nothing in this package infers or coerces types.
package expr

import (
	"strings"

	"github.com/roach88/critnf/internal/ir"
)

// Expression is a value-producing node that can appear as a predicate operand.
//
// Contract:
//   - Clone returns a fully independent copy; mutating it never affects the receiver
//   - Equal is structural; two clones of one expression are Equal
//   - Canonical returns a deterministic description such that Equal
//     expressions always have equal canonical forms
type Expression interface {
	Type() ir.Type
	Clone() Expression
	Equal(other Expression) bool
	Canonical() ir.DObject
	String() string
}

// Fingerprint returns the structural hash code of an expression.
func Fingerprint(e Expression) string {
	if e == nil {
		return ir.MustFingerprint(ir.DomainExpression, ir.DNull{})
	}
	return ir.MustFingerprint(ir.DomainExpression, e.Canonical())
}

// Equal compares two possibly-nil expressions.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Clone clones a possibly-nil expression.
func Clone(e Expression) Expression {
	if e == nil {
		return nil
	}
	return e.Clone()
}

// CloneAll clones every element of list into a new slice.
func CloneAll(list []Expression) []Expression {
	if list == nil {
		return nil
	}
	out := make([]Expression, len(list))
	for i, e := range list {
		out[i] = Clone(e)
	}
	return out
}

// EqualAll compares two ordered lists element-wise.
func EqualAll(a, b []Expression) bool {
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

// CanonicalOf returns the canonical form of a possibly-nil expression.
func CanonicalOf(e Expression) ir.Datum {
	if e == nil {
		return ir.DNull{}
	}
	return e.Canonical()
}

// CanonicalList returns the canonical forms of list in order.
func CanonicalList(list []Expression) ir.DArray {
	out := make(ir.DArray, len(list))
	for i, e := range list {
		out[i] = CanonicalOf(e)
	}
	return out
}

// Join renders list separated by ", ".
func Join(list []Expression) string {
	parts := make([]string, len(list))
	for i, e := range list {
		if e == nil {
			parts[i] = "NULL"
			continue
		}
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
