// Package topology models a directed network derived from a symmetric
// topology of routers and links (C1), and the structural mapping from a
// node sequence to the edge-weight terms whose sum is its cost (C2).
package topology

import (
	"fmt"
	"slices"

	"github.com/netintent-io/netintent/intent"
)

// EdgeVar identifies a directed edge (u,v) and is the oracle's handle to
// that edge's symbolic weight. It is deliberately a plain struct of node
// names, never a "u_v" string key — spec.md §9 calls out splitting
// underscore-joined keys to recover node identifiers as a bug to avoid.
type EdgeVar struct {
	U, V string
}

func (e EdgeVar) String() string { return fmt.Sprintf("%s->%s", e.U, e.V) }

// Graph is the directed expansion of an [intent.Topology]: each undirected
// link yields both directed edges.
type Graph struct {
	nodes map[string]struct{}
	out   map[string][]EdgeVar // adjacency: node -> outgoing edges
	edges map[EdgeVar]struct{}
}

// Build constructs a Graph from t. Returns [intent.ErrMalformed] if a link
// references a node absent from t.Routers.
func Build(t intent.Topology) (*Graph, error) {
	g := &Graph{
		nodes: make(map[string]struct{}, len(t.Routers)),
		out:   make(map[string][]EdgeVar),
		edges: make(map[EdgeVar]struct{}),
	}
	for _, r := range t.Routers {
		g.nodes[r] = struct{}{}
	}
	for _, l := range t.Links {
		if _, ok := g.nodes[l.Node1]; !ok {
			return nil, fmt.Errorf("%w: link references unknown router %q", intent.ErrMalformed, l.Node1)
		}
		if _, ok := g.nodes[l.Node2]; !ok {
			return nil, fmt.Errorf("%w: link references unknown router %q", intent.ErrMalformed, l.Node2)
		}
		g.addDirectedEdge(l.Node1, l.Node2)
		g.addDirectedEdge(l.Node2, l.Node1)
	}
	return g, nil
}

func (g *Graph) addDirectedEdge(u, v string) {
	e := EdgeVar{U: u, V: v}
	if _, dup := g.edges[e]; dup {
		return
	}
	g.edges[e] = struct{}{}
	g.out[u] = append(g.out[u], e)
}

// HasNode reports whether n is a router in the topology.
func (g *Graph) HasNode(n string) bool {
	_, ok := g.nodes[n]
	return ok
}

// Edge returns the directed edge (u,v), if the link exists.
func (g *Graph) Edge(u, v string) (EdgeVar, bool) {
	e := EdgeVar{U: u, V: v}
	_, ok := g.edges[e]
	return e, ok
}

// Edges returns every directed edge in the graph, in a stable order (U
// then V) so that callers building SAT variable tables get a deterministic
// enumeration across runs.
func (g *Graph) Edges() []EdgeVar {
	out := make([]EdgeVar, 0, len(g.edges))
	for e := range g.edges {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b EdgeVar) int {
		if a.U != b.U {
			return cmpString(a.U, b.U)
		}
		return cmpString(a.V, b.V)
	})
	return out
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Out returns the directed edges leaving n, in no particular order.
func (g *Graph) Out(n string) []EdgeVar { return g.out[n] }

// PathCost maps a node sequence to the ordered sequence of [EdgeVar]s whose
// weights sum to the path's cost. It never builds a string representation
// of the path; every edge is looked up structurally (spec.md §9's
// structural-terms requirement).
func (g *Graph) PathCost(path []string) ([]EdgeVar, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("%w: path %v has fewer than two nodes", intent.ErrMalformed, path)
	}
	out := make([]EdgeVar, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		e, ok := g.Edge(path[i], path[i+1])
		if !ok {
			return nil, fmt.Errorf("%w: no link %s->%s on declared path", intent.ErrUnknownNode, path[i], path[i+1])
		}
		out = append(out, e)
	}
	return out, nil
}

// Weight sums the concrete weights of a path's edges under weights.
func Weight(weights map[EdgeVar]int, edges []EdgeVar) int {
	total := 0
	for _, e := range edges {
		total += weights[e]
	}
	return total
}
