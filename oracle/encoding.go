package oracle

import (
	"github.com/crillab/gophersat/solver"
	"github.com/netintent-io/netintent/topology"
)

// encoding is the order-encoded representation of every edge's bounded
// positive-integer weight, fixed for the whole run. Edge e's weight w_e
// ranges over [1, maxWeight]; bits[e][j] (j = 0..maxWeight-2) is the order
// variable for threshold k = j+2, i.e. bits[e][j] == [w_e >= j+2]. w_e is
// then 1 + the number of true bits for e — see the package doc comment for
// why gophersat's pseudo-Boolean solver (not an SMT(LIA) library, absent
// from the example corpus) is the basis for this layer.
type encoding struct {
	maxWeight int
	bits      map[topology.EdgeVar][]solver.Var
	nextVar   int
}

func newEncoding(edges []topology.EdgeVar, maxWeight int) *encoding {
	e := &encoding{
		maxWeight: maxWeight,
		bits:      make(map[topology.EdgeVar][]solver.Var, len(edges)),
	}
	if maxWeight < 1 {
		maxWeight = 1
	}
	for _, edge := range edges {
		n := maxWeight - 1
		if n < 0 {
			n = 0
		}
		row := make([]solver.Var, n)
		for j := range row {
			row[j] = solver.Var(e.nextVar)
			e.nextVar++
		}
		e.bits[edge] = row
	}
	return e
}

// monotonicity returns the base clauses b[e][k] -> b[e][k-1] for every edge,
// which keep the order variables forming a true-prefix (standard order
// encoding symmetry reduction) so that "number of true bits" and "largest
// true threshold" agree.
func (e *encoding) monotonicity() []solver.PBConstr {
	var out []solver.PBConstr
	for _, row := range e.bits {
		for j := 1; j < len(row); j++ {
			// row[j] is threshold k=j+2; row[j-1] is threshold k=j+1.
			out = append(out, solver.PropClause(-int(row[j].Int()), int(row[j-1].Int())))
		}
	}
	return out
}

// weightOf decodes edge e's concrete weight from a solved model.
func (e *encoding) weightOf(model []bool, edge topology.EdgeVar) int {
	w := 1
	for _, v := range e.bits[edge] {
		if model[int(v.Int())-1] {
			w++
		}
	}
	return w
}

// bitLits returns the literal (1-based, gophersat int-literal convention)
// for every order bit belonging to the given edges, with repeated edges
// contributing their bits once per occurrence (a path may reuse an edge).
func (e *encoding) bitLits(edges []topology.EdgeVar) []int {
	var out []int
	for _, edge := range edges {
		for _, v := range e.bits[edge] {
			out = append(out, int(v.Int()))
		}
	}
	return out
}

func negateAll(lits []int) []int {
	out := make([]int, len(lits))
	for i, l := range lits {
		out[i] = -l
	}
	return out
}

// costAtLeastDiff returns the constraints enforcing
// cost(greater) - cost(lesser) >= c
// where cost(X) = len(X) + countTrue(bitLits(X)). Derivation: let
// A = bitLits(greater), B = bitLits(lesser). The inequality reduces to
// countTrue(A) - countTrue(B) >= c - len(greater) + len(lesser) =: k.
// Since countTrue(not B) = len(B) - countTrue(B), that's
// countTrue(A ++ not(B)) >= k + len(B), a single cardinality constraint
// gophersat can express directly via AtMost on the negated literal list
// (AtLeast(L, t) == AtMost(negate(L), len(L)-t)) — this is how every
// integer-arithmetic constraint in this package is built without needing
// a weighted pseudo-Boolean primitive beyond what resolvesat.go already
// demonstrates (PropClause, AtMost).
func (e *encoding) costAtLeastDiff(greater, lesser []topology.EdgeVar, c int) []solver.PBConstr {
	a := e.bitLits(greater)
	b := e.bitLits(lesser)
	k := c - len(greater) + len(lesser)
	target := k + len(b)
	lits := append(append([]int{}, a...), negateAll(b)...)
	if target <= 0 {
		return nil
	}
	if target > len(lits) {
		return []solver.PBConstr{solver.PropClause()} // unsatisfiable: forces this constraint to fail
	}
	return []solver.PBConstr{solver.AtMost(negateAll(lits), len(lits)-target)}
}

// costLess returns constraints enforcing cost(lesser) < cost(greater).
func (e *encoding) costLess(lesser, greater []topology.EdgeVar) []solver.PBConstr {
	return e.costAtLeastDiff(greater, lesser, 1)
}

// costEqual returns constraints enforcing cost(a) == cost(b).
func (e *encoding) costEqual(a, b []topology.EdgeVar) []solver.PBConstr {
	out := e.costAtLeastDiff(b, a, 0) // cost(b) - cost(a) >= 0
	out = append(out, e.costAtLeastDiff(a, b, 0)...)
	return out
}
