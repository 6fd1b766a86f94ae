// Package oracle implements the Intent Satisfiability Oracle (C3): given a
// subset of intents, decides SAT/UNSAT via a CEGAR loop that couples an
// order-encoded pseudo-Boolean constraint model (the integer-arithmetic
// layer) to shortest-path computation over the concrete weighted graph
// each candidate model induces.
//
// No SMT(LIA) library is available anywhere in the example corpus this
// package was grounded on. What the corpus's own gomoddepgraph package
// does carry — and exercises for a structurally similar problem — is
// github.com/crillab/gophersat, a pseudo-Boolean (0/1 ILP) SAT solver
// (see resolvesat.go's buildSatProblem). This package realizes the
// integer-arithmetic layer spec requires as an order encoding over that
// solver instead of fabricating a dependency the corpus never uses.
package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/crillab/gophersat/solver"
	"github.com/netintent-io/netintent/internal/bitset"
	"github.com/netintent-io/netintent/internal/logging"
	"github.com/netintent-io/netintent/intent"
	"github.com/netintent-io/netintent/topology"
)

// Verdict is the oracle's answer for one subset.
type Verdict struct {
	SAT bool
	// Weights is the satisfying witness (every directed edge's modeled
	// weight), populated only when SAT.
	Weights map[topology.EdgeVar]int
	// Reason is a diagnostic-only explanation, populated only when !SAT.
	// The driver treats UNSAT opaquely; nothing parses this string.
	Reason string
}

// Oracle answers Check(subset) for a fixed topology and intent set. It
// owns the edge order-encoding for the whole run, presenting the "single
// long-lived session; per-check push/pop" contract at the API level even
// though gophersat's Problem type is rebuilt fresh each Check (it has no
// incremental push/pop scopes the way an SMT Solver does).
type Oracle struct {
	graph   *topology.Graph
	intents intent.Set
	enc     *encoding
	base    []solver.PBConstr // w_e >= 1 is implicit; base holds monotonicity clauses

	pathEdges map[int][][]topology.EdgeVar // per intent index, each declared path's edges

	cache map[uint64][]cacheEntry
	log   *slog.Logger
}

type cacheEntry struct {
	set     bitset.Set
	verdict Verdict
}

// New builds an Oracle for graph and intents. Returns [intent.ErrUnknownNode]
// if any intent's src, dst, or declared path references a node with no
// corresponding link, satisfying spec's fail-fast-at-setup policy for
// IntentReferencesUnknownNode.
func New(graph *topology.Graph, intents intent.Set, log *slog.Logger) (*Oracle, error) {
	if log == nil {
		log = slog.Default()
	}
	o := &Oracle{
		graph:     graph,
		intents:   intents,
		pathEdges: make(map[int][][]topology.EdgeVar, intents.Len()),
		cache:     make(map[uint64][]cacheEntry),
		log:       log,
	}

	maxPathLen := 0
	for idx, it := range intents.All() {
		if !graph.HasNode(it.Src) || !graph.HasNode(it.Dst) {
			return nil, fmt.Errorf("intent %q: %w: src %q or dst %q is not a router", it.ID, intent.ErrUnknownNode, it.Src, it.Dst)
		}
		paths := make([][]topology.EdgeVar, len(it.Paths))
		for i, p := range it.Paths {
			edges, err := graph.PathCost(p)
			if err != nil {
				return nil, fmt.Errorf("intent %q: %w", it.ID, err)
			}
			paths[i] = edges
			if len(p) > maxPathLen {
				maxPathLen = len(p)
			}
		}
		o.pathEdges[idx] = paths
	}

	// W sized generously so the CEGAR loop's refinements never need a
	// weight the encoding can't express: each refinement strictly orders
	// two paths of at most maxPathLen edges, and at most 2*|S|+5
	// iterations occur before the cap, so a margin of 2*maxPathLen*N+2
	// (N = total intents, an upper bound on any |S|) is ample.
	w := 2*maxPathLen*intents.Len() + 2
	if w < 1 {
		w = 1
	}
	o.enc = newEncoding(graph.Edges(), w)
	o.base = o.enc.monotonicity()
	log.Log(context.Background(), logging.LevelVerbose, "oracle: edge weight domain sized", "maxWeight", w, "maxPathLen", maxPathLen)
	return o, nil
}

// Check decides SAT/UNSAT for subset, memoized by subset identity. The
// empty subset returns SAT unconditionally, matching the data model's
// stated invariant directly instead of discovering it via a trivial solve.
func (o *Oracle) Check(subset bitset.Set) (Verdict, error) {
	if subset.Len() == 0 {
		return Verdict{SAT: true, Weights: o.trivialWeights()}, nil
	}
	h := subset.Hash()
	for _, e := range o.cache[h] {
		if e.set.Equal(subset) {
			return e.verdict, nil
		}
	}

	v, err := o.solve(subset)
	if err != nil {
		return Verdict{}, err
	}
	o.cache[h] = append(o.cache[h], cacheEntry{set: subset, verdict: v})
	return v, nil
}

func (o *Oracle) trivialWeights() map[topology.EdgeVar]int {
	w := make(map[topology.EdgeVar]int, len(o.graph.Edges()))
	for _, e := range o.graph.Edges() {
		w[e] = 1
	}
	return w
}

// solve runs the CEGAR loop described in spec §4.1 for subset.
func (o *Oracle) solve(subset bitset.Set) (Verdict, error) {
	constrs := slices.Clone(o.base)
	for _, idx := range subset.Members() {
		constrs = append(constrs, o.declaredCostConstraints(idx)...)
	}

	iterCap := 2*subset.Len() + 5
	for iter := 0; ; iter++ {
		if iter >= iterCap {
			return Verdict{}, fmt.Errorf("subset %s: %w", subset, ErrIndeterminate)
		}
		prob := solver.ParsePBConstrs(constrs)
		s := solver.New(prob)
		if status := s.Solve(); status != solver.Sat {
			return Verdict{SAT: false, Reason: fmt.Sprintf("no weight assignment satisfies the declared costs of %s", subset)}, nil
		}
		model := s.Model()
		weights := o.decodeWeights(model)

		refinements, err := o.counterexampleConstraints(subset, weights)
		if err != nil {
			return Verdict{}, err
		}
		if len(refinements) == 0 {
			return Verdict{SAT: true, Weights: weights}, nil
		}
		constrs = append(constrs, refinements...)
	}
}

func (o *Oracle) decodeWeights(model []bool) map[topology.EdgeVar]int {
	edges := o.graph.Edges()
	out := make(map[topology.EdgeVar]int, len(edges))
	for _, e := range edges {
		out[e] = o.enc.weightOf(model, e)
	}
	return out
}

// declaredCostConstraints returns the initial constraints step 1 of the
// CEGAR loop adds for one intent: nothing for simple (enforced purely by
// counterexamples), a strict inequality for path_preference, pairwise
// equality for ECMP.
func (o *Oracle) declaredCostConstraints(idx int) []solver.PBConstr {
	it := o.intents.ByIndex(idx)
	paths := o.pathEdges[idx]
	switch it.Kind {
	case intent.KindSimple:
		return nil
	case intent.KindPathPreference:
		return o.enc.costLess(paths[0], paths[1])
	case intent.KindECMP:
		var out []solver.PBConstr
		for i := 1; i < len(paths); i++ {
			out = append(out, o.enc.costEqual(paths[0], paths[i])...)
		}
		return out
	default:
		return nil
	}
}

// counterexampleConstraints implements step 2's inner verification: for
// every intent in subset, check its routing contract against the concrete
// graph induced by weights, and return any refinement constraints needed
// to rule out a violating model.
func (o *Oracle) counterexampleConstraints(subset bitset.Set, weights map[topology.EdgeVar]int) ([]solver.PBConstr, error) {
	const candidateBound = 10
	var out []solver.PBConstr
	for _, idx := range subset.Members() {
		it := o.intents.ByIndex(idx)
		paths := o.pathEdges[idx]
		switch it.Kind {
		case intent.KindSimple, intent.KindPathPreference:
			primaryEdges := paths[0]
			cands, err := o.graph.KShortestPaths(weights, it.Src, it.Dst, candidateBound)
			if err != nil {
				return nil, fmt.Errorf("intent %q: %w", it.ID, err)
			}
			for _, cand := range cands {
				if declaredPath(it.Paths, cand) {
					continue
				}
				candEdges, err := o.graph.PathCost(cand)
				if err != nil {
					return nil, err
				}
				if topology.Weight(weights, primaryEdges) < topology.Weight(weights, candEdges) {
					continue
				}
				out = append(out, o.enc.costLess(primaryEdges, candEdges)...)
			}
		case intent.KindECMP:
			primaryEdges := paths[0]
			all, err := o.graph.AllShortestPaths(weights, it.Src, it.Dst)
			if err != nil {
				return nil, fmt.Errorf("intent %q: %w", it.ID, err)
			}
			for _, cand := range all {
				if declaredPath(it.Paths, cand) {
					continue
				}
				candEdges, err := o.graph.PathCost(cand)
				if err != nil {
					return nil, err
				}
				if topology.Weight(weights, primaryEdges) < topology.Weight(weights, candEdges) {
					continue
				}
				out = append(out, o.enc.costLess(primaryEdges, candEdges)...)
			}
		}
	}
	return out, nil
}

func declaredPath(declared [][]string, cand []string) bool {
	for _, p := range declared {
		if slices.Equal(p, cand) {
			return true
		}
	}
	return false
}
