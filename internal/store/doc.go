// Package store provides the SQLite database used to check predicate
// rewrites against data.
//
// A Store holds two kinds of tables:
//   - Fixture tables: caller-defined rows that predicates are evaluated
//     against. Every fixture table has an INTEGER PRIMARY KEY id.
//   - normalizations: a record of normal-form conversions keyed by the
//     structural fingerprint of the input and the target form.
//
// # Critical Patterns
//
// Deterministic query results
//   - Row selections include ORDER BY id ASC; listings ORDER BY their key
//     with COLLATE BINARY.
//
// Idempotent writes
//   - WriteNormalization uses ON CONFLICT DO NOTHING on
//     (input_fingerprint, form).
//
// Matching semantics
//   - case_sensitive_like=ON so LIKE agrees with criteria.MatchCriteria.
//   - critnf_match(pattern, mode, escape, ci, value) evaluates SIMILAR TO
//     and LIKE_REGEX through the process-wide criteria.PatternCache.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
