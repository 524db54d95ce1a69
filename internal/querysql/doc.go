// Package querysql compiles predicate trees to parameterized SQLite SQL.
//
// Compilation is what makes a rewrite checkable: a predicate and its
// normal form must select the same rows from the same table.
//
// CRITICAL: Every SELECT includes ORDER BY id ASC COLLATE BINARY.
// CRITICAL: Constants are always parameterized, never interpolated.
// Identifiers (columns, tables, function names) are validated against
// store.IsIdentifier and rejected otherwise.
//
// Subquery predicates compile in one of two ways. When the binding
// context holds values for the predicate's correlation id, the values are
// inlined as parameters (EXISTS becomes 1 = 1 or 1 = 0, IN becomes an IN
// list, quantified comparisons become OR/AND chains). Otherwise the
// subquery text is embedded as-is, which SQLite supports for EXISTS, IN,
// and unquantified scalar comparison only.
package querysql
