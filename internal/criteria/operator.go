package criteria

import "fmt"

// CompareOp is a binary comparison operator.
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNE
	OpLT
	OpGT
	OpLE
	OpGE
)

var compareSymbols = [...]string{
	OpEQ: "=",
	OpNE: "<>",
	OpLT: "<",
	OpGT: ">",
	OpLE: "<=",
	OpGE: ">=",
}

// Valid reports whether op is one of the six defined operators.
func (op CompareOp) Valid() bool {
	return op >= OpEQ && op <= OpGE
}

func (op CompareOp) String() string {
	if !op.Valid() {
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
	return compareSymbols[op]
}

// Inverse returns the operator that is the logical negation of op under
// two-valued logic: EQ<->NE, LT<->GE, GT<->LE.
//
// NULL operands make both x < y and x >= y UNKNOWN, so the inverse is not a
// NULL-safe rewrite. Verify the evaluator's NULL semantics before using it in
// a NULL-sensitive context.
func (op CompareOp) Inverse() CompareOp {
	switch op {
	case OpEQ:
		return OpNE
	case OpNE:
		return OpEQ
	case OpLT:
		return OpGE
	case OpGE:
		return OpLT
	case OpGT:
		return OpLE
	case OpLE:
		return OpGT
	default:
		return op
	}
}

// CompareOpFromCode validates a raw operator code.
func CompareOpFromCode(code int) (CompareOp, error) {
	op := CompareOp(code)
	if !op.Valid() {
		return op, invalidArgument("compare operator", fmt.Sprintf("operator code %d out of range", code))
	}
	return op, nil
}

// ParseCompareOp converts a symbol ("=", "<>", "!=", "<", ...) to a CompareOp.
func ParseCompareOp(symbol string) (CompareOp, error) {
	switch symbol {
	case "=", "==":
		return OpEQ, nil
	case "<>", "!=":
		return OpNE, nil
	case "<":
		return OpLT, nil
	case ">":
		return OpGT, nil
	case "<=":
		return OpLE, nil
	case ">=":
		return OpGE, nil
	default:
		return OpEQ, invalidArgument("compare operator", fmt.Sprintf("unknown operator %q", symbol))
	}
}

// LogicalOp is the connective of a CompoundCriteria.
type LogicalOp int

const (
	OpAND LogicalOp = iota
	OpOR
)

// Valid reports whether op is AND or OR.
func (op LogicalOp) Valid() bool {
	return op == OpAND || op == OpOR
}

// Flip swaps AND and OR (De Morgan).
func (op LogicalOp) Flip() LogicalOp {
	if op == OpAND {
		return OpOR
	}
	return OpAND
}

func (op LogicalOp) String() string {
	switch op {
	case OpAND:
		return "AND"
	case OpOR:
		return "OR"
	default:
		return fmt.Sprintf("LogicalOp(%d)", int(op))
	}
}

// LogicalOpFromCode validates a raw connective code.
func LogicalOpFromCode(code int) (LogicalOp, error) {
	op := LogicalOp(code)
	if !op.Valid() {
		return op, invalidArgument("compound operator", fmt.Sprintf("operator code %d out of range", code))
	}
	return op, nil
}

// Quantifier qualifies a comparison against a subquery.
type Quantifier int

const (
	// QuantNone compares against a scalar subquery.
	QuantNone Quantifier = iota
	// QuantSome is true when the comparison holds for at least one row. ANY is a synonym.
	QuantSome
	// QuantAll is true when the comparison holds for every row.
	QuantAll
)

// QuantAny is the SQL synonym of QuantSome.
const QuantAny = QuantSome

// Valid reports whether q is a defined quantifier.
func (q Quantifier) Valid() bool {
	return q >= QuantNone && q <= QuantAll
}

func (q Quantifier) String() string {
	switch q {
	case QuantNone:
		return ""
	case QuantSome:
		return "SOME"
	case QuantAll:
		return "ALL"
	default:
		return fmt.Sprintf("Quantifier(%d)", int(q))
	}
}

// ParseQuantifier converts "", "none", "some", "any", or "all" (any case).
func ParseQuantifier(s string) (Quantifier, error) {
	switch s {
	case "", "none", "NONE":
		return QuantNone, nil
	case "some", "SOME", "any", "ANY":
		return QuantSome, nil
	case "all", "ALL":
		return QuantAll, nil
	default:
		return QuantNone, invalidArgument("quantifier", fmt.Sprintf("unknown quantifier %q", s))
	}
}

// MatchMode selects the pattern language of a MatchCriteria.
type MatchMode int

const (
	// ModeLike is SQL LIKE: % and _ wildcards, anchored.
	ModeLike MatchMode = iota
	// ModeSimilar is SQL SIMILAR TO: LIKE wildcards plus regex alternation and repetition, anchored.
	ModeSimilar
	// ModeRegex is a raw regular expression, unanchored.
	ModeRegex
)

// Valid reports whether m is a defined match mode.
func (m MatchMode) Valid() bool {
	return m >= ModeLike && m <= ModeRegex
}

func (m MatchMode) String() string {
	switch m {
	case ModeLike:
		return "LIKE"
	case ModeSimilar:
		return "SIMILAR TO"
	case ModeRegex:
		return "LIKE_REGEX"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode converts "like", "similar", or "regex", or a mode as
// printed by MatchMode.String.
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "", "like", "LIKE":
		return ModeLike, nil
	case "similar", "SIMILAR", "similar to", "SIMILAR TO":
		return ModeSimilar, nil
	case "regex", "REGEX", "like_regex", "LIKE_REGEX":
		return ModeRegex, nil
	default:
		return ModeLike, invalidArgument("match mode", fmt.Sprintf("unknown match mode %q", s))
	}
}
