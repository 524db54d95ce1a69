// Package ir provides the value layer shared by predicate operands.
//
// This package contains datum and type definitions only. The expr and
// criteria packages import ir; ir imports nothing internal. This keeps the
// value layer at the bottom of the dependency graph.
//
// Key design constraints:
//   - NO float datums - use DInt for numbers, floats are rejected on input
//   - DNull is an explicit datum, never a nil interface
//   - Canonical JSON (RFC 8785 ordering, NFC strings) is the ONLY encoding
//     used for structural fingerprints
package ir
