package topology_test

import (
	"testing"

	"github.com/netintent-io/netintent/intent"
	"github.com/netintent-io/netintent/topology"
)

func triangleTopology() intent.Topology {
	return intent.Topology{
		Routers: []string{"A", "B", "C"},
		Links: []intent.Link{
			{Node1: "A", Node2: "B"},
			{Node1: "B", Node2: "C"},
			{Node1: "A", Node2: "C"},
		},
	}
}

func TestBuildExpandsLinksBothDirections(t *testing.T) {
	g, err := topology.Build(triangleTopology())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := g.Edge("A", "B"); !ok {
		t.Fatalf("missing edge A->B")
	}
	if _, ok := g.Edge("B", "A"); !ok {
		t.Fatalf("missing edge B->A")
	}
}

func TestBuildRejectsUnknownRouter(t *testing.T) {
	topo := intent.Topology{
		Routers: []string{"A"},
		Links:   []intent.Link{{Node1: "A", Node2: "Z"}},
	}
	if _, err := topology.Build(topo); err == nil {
		t.Fatalf("Build accepted a link to an unknown router")
	}
}

func TestPathCostResolvesEdgesStructurally(t *testing.T) {
	g, err := topology.Build(triangleTopology())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	edges, err := g.PathCost([]string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("PathCost: %v", err)
	}
	want := []topology.EdgeVar{{U: "A", V: "B"}, {U: "B", V: "C"}}
	if len(edges) != 2 || edges[0] != want[0] || edges[1] != want[1] {
		t.Fatalf("PathCost = %v, want %v", edges, want)
	}
}

func TestPathCostRejectsMissingLink(t *testing.T) {
	g, err := topology.Build(intent.Topology{Routers: []string{"A", "B", "C"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := g.PathCost([]string{"A", "B"}); err == nil {
		t.Fatalf("PathCost accepted a nonexistent link")
	}
}

func weightsAllOne(g *topology.Graph) map[topology.EdgeVar]int {
	w := make(map[topology.EdgeVar]int)
	for _, e := range g.Edges() {
		w[e] = 1
	}
	return w
}

func TestAllShortestPathsTieOnChord(t *testing.T) {
	g, err := topology.Build(triangleTopology())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	weights := weightsAllOne(g)
	weights[topology.EdgeVar{U: "A", V: "C"}] = 3
	weights[topology.EdgeVar{U: "A", V: "B"}] = 1
	weights[topology.EdgeVar{U: "B", V: "C"}] = 1
	paths, err := g.AllShortestPaths(weights, "A", "C")
	if err != nil {
		t.Fatalf("AllShortestPaths: %v", err)
	}
	if len(paths) != 1 || len(paths[0]) != 3 {
		t.Fatalf("AllShortestPaths = %v, want exactly the A-B-C path", paths)
	}

	tied := weightsAllOne(g)
	tied[topology.EdgeVar{U: "A", V: "C"}] = 2
	paths, err = g.AllShortestPaths(tied, "A", "C")
	if err != nil {
		t.Fatalf("AllShortestPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("AllShortestPaths with chord weight 2 = %v, want 2 tied paths", paths)
	}
}

func TestKShortestPathsNonDecreasingCost(t *testing.T) {
	g, err := topology.Build(triangleTopology())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	weights := weightsAllOne(g)
	paths, err := g.KShortestPaths(weights, "A", "C", 3)
	if err != nil {
		t.Fatalf("KShortestPaths: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("KShortestPaths returned no paths")
	}
	costs := make([]int, len(paths))
	for i, p := range paths {
		edges, err := g.PathCost(p)
		if err != nil {
			t.Fatalf("PathCost(%v): %v", p, err)
		}
		costs[i] = topology.Weight(weights, edges)
	}
	for i := 1; i < len(costs); i++ {
		if costs[i] < costs[i-1] {
			t.Fatalf("costs not non-decreasing: %v", costs)
		}
	}
}
