// Package mapsolve implements the Seed Generator / Map Solver (C4): a
// Boolean model-space enumerator over intent indices with up/down blocking
// and a dynamic cardinality floor, grounded directly on resolvesat.go's
// buildSatProblem (the teacher's own gophersat-based variable-selection
// solver) and on original_source/mapsolvers.py's MinicardMapSolver, which
// solves the identical problem — "which subset of a universe of Boolean
// choices is consistent with a growing set of blocking constraints" — with
// a cardinality-constrained SAT solver.
package mapsolve

import (
	"slices"

	"github.com/crillab/gophersat/solver"
	"github.com/netintent-io/netintent/internal/bitset"
)

// Bias selects the seed-generation heuristic's flip order when a NextSeed
// call maximizes a candidate model. It does not affect correctness: every
// seed NextSeed returns is maximal regardless of Bias (see DESIGN.md's
// Open-Question note on why this implementation exceeds spec's
// high-bias-only maximality requirement uniformly). Bias only governs
// which maximal seed is found first when several exist, biasing the
// search toward fast MUS throughput or fast MSS convergence.
type Bias int

const (
	// BiasMUS favors flipping low-index intents in first, tending to
	// surface smaller maximal seeds sooner — useful when the driver's
	// priority is MUS discovery (a large seed just gets shrunk anyway).
	BiasMUS Bias = iota
	// BiasMSS favors flipping high-index intents in first, tending to
	// reach the single largest maximal seed with fewer intermediate
	// solves — useful when the driver's priority is MSS discovery.
	BiasMSS
)

// Solver is the Map Solver: a Boolean search space over n intent indices
// (1..n), constrained by accumulated up/down blocking records and a
// cardinality floor.
type Solver struct {
	n         int
	bias      Bias
	blockUp   []bitset.Set
	blockDown []bitset.Set
	floor     int
}

// New creates a Solver over the universe of n intents.
func New(n int, bias Bias) *Solver {
	return &Solver{n: n, bias: bias}
}

// NextSeed returns a subset of [1,n] that is not blocked up, not blocked
// down, and of cardinality >= the current floor, or (zero value, false) if
// no such subset exists. The returned seed is always maximal: no superset
// of it is also unblocked (spec's "critical" invariant for MSS
// soundness — see [Bias]'s doc comment for why this implementation doesn't
// gate maximality behind the bias setting).
func (s *Solver) NextSeed() (bitset.Set, bool) {
	constrs := s.buildConstraints()
	prob := solver.ParsePBConstrs(constrs)
	slv := solver.New(prob)
	if slv.Solve() != solver.Sat {
		return bitset.Set{}, false
	}
	model := slv.Model()
	assign := make([]bool, s.n)
	// The model only covers variables some constraint mentions; the rest
	// start false and are left to the maximize step below.
	copy(assign, model)

	order := make([]int, s.n)
	for i := range order {
		order[i] = i
	}
	if s.bias == BiasMSS {
		slices.Reverse(order)
	}
	for _, i := range order {
		if assign[i] {
			continue
		}
		assign[i] = true
		if s.consistent(assign) {
			continue
		}
		assign[i] = false
	}
	return decodeAssignment(assign), true
}

// consistent reports whether assign (a full truth assignment over all n
// variables) satisfies every accumulated blocking record and the floor,
// used by NextSeed's greedy maximize step. This is a direct evaluation,
// not another SAT call, since assign is already concrete.
func (s *Solver) consistent(assign []bool) bool {
	count := 0
	for _, v := range assign {
		if v {
			count++
		}
	}
	if count < s.floor {
		return false
	}
	for _, b := range s.blockUp {
		if setIsTrueIn(b, assign) {
			return false
		}
	}
	for _, b := range s.blockDown {
		if setContainsTrueMembers(assign, b) {
			return false
		}
	}
	return true
}

// setIsTrueIn reports whether every member of b is true in assign (i.e.
// assign, restricted to b's members, is "all true" — the condition
// block_up forbids).
func setIsTrueIn(b bitset.Set, assign []bool) bool {
	for _, i := range b.Members() {
		if !assign[i-1] {
			return false
		}
	}
	return true
}

// setContainsTrueMembers reports whether assign's true variables are a
// subset of b's members (the condition block_down forbids): equivalently,
// no true variable lies outside b.
func setContainsTrueMembers(assign []bool, b bitset.Set) bool {
	for i, v := range assign {
		if v && !b.Contains(i+1) {
			return false
		}
	}
	return true
}

func decodeAssignment(assign []bool) bitset.Set {
	idx := make([]int, 0, len(assign))
	for i, v := range assign {
		if v {
			idx = append(idx, i+1)
		}
	}
	return bitset.Of(idx...)
}

// buildConstraints rebuilds the gophersat problem from scratch each call —
// gophersat's Problem type has no push/pop or assumption support, so this
// follows the teacher's own one-shot solver.New(prob).Solve() idiom from
// resolvesat.go rather than fabricating an incremental API gophersat
// doesn't expose.
func (s *Solver) buildConstraints() []solver.PBConstr {
	var out []solver.PBConstr
	for _, b := range s.blockUp {
		lits := make([]int, 0, b.Len())
		for _, i := range b.Members() {
			lits = append(lits, -i)
		}
		// An empty b here means "every S satisfies ∅ ⊆ S", so this clause
		// is deliberately the empty (always-false) clause when b is empty.
		out = append(out, solver.PropClause(lits...))
	}
	for _, b := range s.blockDown {
		lits := make([]int, 0, s.n-b.Len())
		for i := 1; i <= s.n; i++ {
			if !b.Contains(i) {
				lits = append(lits, i)
			}
		}
		out = append(out, solver.PropClause(lits...)) // empty means "no subset of the universe", i.e. nothing left
	}
	if s.floor > 0 {
		all := make([]int, s.n)
		for i := range all {
			all[i] = i + 1
		}
		if s.floor <= s.n {
			out = append(out, solver.AtMost(negate(all), s.n-s.floor))
		}
	}
	return out
}

func negate(lits []int) []int {
	out := make([]int, len(lits))
	for i, l := range lits {
		out[i] = -l
	}
	return out
}

// BlockUp marks b's up-closure as fully explored: no future seed S will
// satisfy b ⊆ S. Compacts by dropping b if an existing record already
// subsumes it, and dropping existing records that b subsumes.
func (s *Solver) BlockUp(b bitset.Set) {
	for _, existing := range s.blockUp {
		if existing.Subset(b) {
			return // b is already implied by a more general existing record
		}
	}
	s.blockUp = slices.DeleteFunc(s.blockUp, func(existing bitset.Set) bool {
		return b.Subset(existing) && !b.Equal(existing)
	})
	s.blockUp = append(s.blockUp, b)
}

// BlockDown marks b's down-closure as fully explored: no future seed S
// will satisfy S ⊆ b. Compaction is the mirror image of BlockUp's.
func (s *Solver) BlockDown(b bitset.Set) {
	for _, existing := range s.blockDown {
		if b.Subset(existing) {
			return
		}
	}
	s.blockDown = slices.DeleteFunc(s.blockDown, func(existing bitset.Set) bool {
		return existing.Subset(b) && !existing.Equal(b)
	})
	s.blockDown = append(s.blockDown, b)
}

// RaiseFloor raises the cardinality floor to k if k is larger than the
// current floor; otherwise it's a no-op.
func (s *Solver) RaiseFloor(k int) {
	if k > s.floor {
		s.floor = k
	}
}
