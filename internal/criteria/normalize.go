package criteria

import "fmt"

// Form selects a normal form.
type Form int

const (
	// DNF is an OR of ANDs of atomic (possibly negated) predicates.
	DNF Form = iota
	// CNF is an AND of ORs of atomic (possibly negated) predicates.
	CNF
)

func (f Form) String() string {
	switch f {
	case DNF:
		return "DNF"
	case CNF:
		return "CNF"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

// ParseForm converts "dnf" or "cnf", lower or upper case, to a Form.
func ParseForm(s string) (Form, error) {
	switch s {
	case "dnf", "DNF":
		return DNF, nil
	case "cnf", "CNF":
		return CNF, nil
	default:
		return DNF, invalidArgument("normal form", fmt.Sprintf("unknown form %q (want dnf or cnf)", s))
	}
}

// Outer returns the connective joining clauses in form f (OR for DNF).
func (f Form) Outer() LogicalOp {
	if f == DNF {
		return OpOR
	}
	return OpAND
}

// Inner returns the connective inside each clause in form f (AND for DNF).
func (f Form) Inner() LogicalOp {
	return f.Outer().Flip()
}

// ToDisjunctiveNormalForm rewrites root into an OR of ANDs.
//
// If root is already in that form the same reference is returned.
// Otherwise the result is a deep copy that shares nothing with root.
// Expansion is multiplicative in the width of nested ORs; callers that
// accept arbitrary input should bound it (see package rewrite).
func ToDisjunctiveNormalForm(root Criteria) Criteria {
	return toNormalForm(root, true)
}

// ToConjunctiveNormalForm rewrites root into an AND of ORs, with the same
// sharing rules as ToDisjunctiveNormalForm.
func ToConjunctiveNormalForm(root Criteria) Criteria {
	return toNormalForm(root, false)
}

// Normalize dispatches on form.
func Normalize(root Criteria, form Form) Criteria {
	return toNormalForm(root, form == DNF)
}

func toNormalForm(root Criteria, dnf bool) Criteria {
	if root == nil {
		return nil
	}
	result := normalize(root, dnf)
	if result.Equal(root) {
		return root
	}
	return Clone(result)
}

// normalize returns a structurally normalized tree that may share leaves
// with node. NOT over an atomic predicate is kept as is; pushing negation
// into operators is a separate pass.
func normalize(node Criteria, dnf bool) Criteria {
	invert := false
	if not, ok := node.(*NotCriteria); ok {
		switch child := not.Child.(type) {
		case *NotCriteria:
			return normalize(child.Child, dnf)
		case *CompoundCriteria:
			invert = true
			node = child
		default:
			return node
		}
	}

	compound, ok := node.(*CompoundCriteria)
	if !ok {
		return node
	}

	op := compound.op
	if invert {
		op = op.Flip()
	}
	distributing := OpOR
	if dnf {
		distributing = OpAND
	}

	flat := make([]Criteria, 0, len(compound.children))
	var parts []*CompoundCriteria
	for _, child := range compound.children {
		if invert {
			child = NewNotCriteria(child)
		}
		r := normalize(child, dnf)
		if rc, ok := r.(*CompoundCriteria); ok {
			if rc.op == op {
				flat = append(flat, rc.children...)
				continue
			}
			if op == distributing {
				parts = append(parts, rc)
				continue
			}
		}
		flat = append(flat, r)
	}

	if len(parts) == 0 {
		return newCompound(op, flat)
	}
	return expand(flat, parts, op)
}

// expand distributes inner over the children of parts:
// a AND (b OR c) becomes (a AND b) OR (a AND c). Clause i takes child
// (i / divisor_j) % count_j of part j, where divisor_j is the product of
// the child counts of the parts before j. A picked child that is itself an
// inner connective is spliced into the clause so the output stays flat.
func expand(flat []Criteria, parts []*CompoundCriteria, inner LogicalOp) *CompoundCriteria {
	total := 1
	for _, p := range parts {
		total *= len(p.children)
	}

	clauses := make([]Criteria, 0, total)
	for i := 0; i < total; i++ {
		terms := make([]Criteria, 0, len(flat)+len(parts))
		terms = append(terms, flat...)
		divisor := 1
		for _, p := range parts {
			n := len(p.children)
			pick := p.children[(i/divisor)%n]
			if pc, ok := pick.(*CompoundCriteria); ok && pc.op == inner {
				terms = append(terms, pc.children...)
			} else {
				terms = append(terms, pick)
			}
			divisor *= n
		}
		clauses = append(clauses, newCompound(inner, terms))
	}
	return newCompound(inner.Flip(), clauses)
}

// CountClauses returns the number of top-level clauses of root read as
// form f: the children of an outer connective, or 1 for anything else.
func CountClauses(root Criteria, f Form) int {
	if root == nil {
		return 0
	}
	if c, ok := root.(*CompoundCriteria); ok && c.op == f.Outer() {
		return len(c.children)
	}
	return 1
}

// IsNormalForm reports whether root is already in form f, i.e. whether
// normalizing it would return it unchanged.
func IsNormalForm(root Criteria, f Form) bool {
	if root == nil {
		return true
	}
	return normalize(root, f == DNF).Equal(root)
}
