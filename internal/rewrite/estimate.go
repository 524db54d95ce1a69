package rewrite

import (
	"math"

	"github.com/roach88/critnf/internal/criteria"
)

// EstimateClauses returns the number of top-level clauses that
// criteria.Normalize(root, form) would produce, without building it.
// The count is exact; it saturates at math.MaxInt.
//
// For DNF an OR contributes the sum of its children's counts and an AND
// the product (distribution). CNF swaps the roles. NOT flips the
// connective beneath it.
func EstimateClauses(root criteria.Criteria, form criteria.Form) int {
	if root == nil {
		return 0
	}
	return estimate(root, false, form.Outer())
}

func estimate(c criteria.Criteria, negated bool, sumOp criteria.LogicalOp) int {
	if n, ok := c.(*criteria.NotCriteria); ok {
		return estimate(n.Child, !negated, sumOp)
	}
	cc, ok := c.(*criteria.CompoundCriteria)
	if !ok {
		return 1
	}

	op := cc.Operator()
	if negated {
		op = op.Flip()
	}

	if op == sumOp {
		total := 0
		for _, child := range cc.Children() {
			total = addSat(total, estimate(child, negated, sumOp))
		}
		return total
	}
	total := 1
	for _, child := range cc.Children() {
		total = mulSat(total, estimate(child, negated, sumOp))
	}
	return total
}

func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}
