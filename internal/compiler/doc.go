// Package compiler turns CUE criteria documents into criteria trees.
//
// A document has an optional name, an optional column type table, and
// the predicate itself:
//
//	name: "adults named b"
//	columns: { age: "integer", name: "string" }
//	criteria: and: [
//		{compare: {left: "age", op: ">=", right: 18}},
//		{like: {expr: "name", pattern: {lit: "b%"}, ci: true}},
//	]
//
// Every predicate node is a struct with exactly one key naming its kind:
// compare, quantified, between, like, isnull, distinct, in_list, in_subquery,
// dependent_in, exists, expr, not, and, or.
//
// Operands: a bare string is a column; integers, booleans, and null are
// constants; {lit: v} is a constant of any kind (use it for strings);
// {col: "x", group: "t"} is a qualified column; {fn: "upper", args: [...],
// type: "string"} is a function call. Floats are rejected.
package compiler
