package criteria

// SeparateCriteriaByAnd flattens the top-level AND conjuncts of root in
// order. An OR compound or an atomic predicate is one conjunct. A nil root
// yields an empty slice.
func SeparateCriteriaByAnd(root Criteria) []Criteria {
	out := []Criteria{}
	return appendConjuncts(out, root)
}

func appendConjuncts(out []Criteria, c Criteria) []Criteria {
	if c == nil {
		return out
	}
	if cc, ok := c.(*CompoundCriteria); ok && cc.op == OpAND {
		for _, child := range cc.children {
			out = appendConjuncts(out, child)
		}
		return out
	}
	return append(out, c)
}

// CombineCriteria joins a and b with AND, or with OR when disjunctively is
// set. A nil operand yields the other. An operand that is already a
// compound with the target operator contributes its children directly, so
// OR(OR(a, b), c) is built as OR(a, b, c).
//
// The result shares children with a and b.
func CombineCriteria(a, b Criteria, disjunctively bool) Criteria {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	op := OpAND
	if disjunctively {
		op = OpOR
	}
	children := absorb(nil, a, op)
	children = absorb(children, b, op)
	return newCompound(op, children)
}

func absorb(children []Criteria, c Criteria, op LogicalOp) []Criteria {
	if cc, ok := c.(*CompoundCriteria); ok && cc.op == op {
		return append(children, cc.children...)
	}
	return append(children, c)
}

// CombineAll ANDs every non-nil element of list, with the same absorption
// as CombineCriteria. It returns nil for an empty list and the element
// itself for a single one.
func CombineAll(list []Criteria) Criteria {
	var result Criteria
	for _, c := range list {
		result = CombineCriteria(result, c, false)
	}
	return result
}
