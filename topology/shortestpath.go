package topology

import (
	"container/heap"
	"fmt"
	"math"
	"slices"
)

// shortestPath finds the least-cost src->dst path under weights, ignoring
// any node in excludeNodes and any edge in excludeEdges — the building
// block Yen's algorithm uses for spur paths, and the degenerate case
// (nothing excluded) used directly by callers that just want one shortest
// path. Grounded on the heap-based Dijkstra from the katalvlaran-lvlath
// pack (graph/algorithms/dijkstra.go), adapted to directed multigraph
// edges keyed by [EdgeVar] and to take per-call exclusion sets instead of
// operating on a whole separate graph object.
func (g *Graph) shortestPath(weights map[EdgeVar]int, src, dst string, excludeNodes map[string]struct{}, excludeEdges map[EdgeVar]struct{}) ([]string, bool) {
	dist := make(map[string]int64, len(g.nodes))
	parent := make(map[string]string, len(g.nodes))
	visited := make(map[string]bool, len(g.nodes))
	for n := range g.nodes {
		dist[n] = math.MaxInt64
	}
	if _, excluded := excludeNodes[src]; excluded {
		return nil, false
	}
	dist[src] = 0
	pq := make(nodePQ, 0, len(g.nodes))
	heap.Init(&pq)
	heap.Push(&pq, &nodeItem{id: src, dist: 0})
	for pq.Len() > 0 {
		u := heap.Pop(&pq).(*nodeItem)
		if visited[u.id] {
			continue
		}
		visited[u.id] = true
		if u.id == dst {
			break
		}
		for _, e := range g.out[u.id] {
			if _, skip := excludeNodes[e.V]; skip {
				continue
			}
			if _, skip := excludeEdges[e]; skip {
				continue
			}
			if visited[e.V] {
				continue
			}
			w := int64(weights[e])
			nd := dist[u.id] + w
			if nd < dist[e.V] {
				dist[e.V] = nd
				parent[e.V] = u.id
				heap.Push(&pq, &nodeItem{id: e.V, dist: nd})
			}
		}
	}
	if dist[dst] == math.MaxInt64 {
		return nil, false
	}
	return reconstructPath(parent, src, dst), true
}

func reconstructPath(parent map[string]string, src, dst string) []string {
	path := []string{dst}
	for cur := dst; cur != src; {
		p, ok := parent[cur]
		if !ok {
			return nil
		}
		path = append(path, p)
		cur = p
	}
	slices.Reverse(path)
	return path
}

type nodeItem struct {
	id   string
	dist int64
}

type nodePQ []*nodeItem

func (pq nodePQ) Len() int            { return len(pq) }
func (pq nodePQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq nodePQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x any)         { *pq = append(*pq, x.(*nodeItem)) }
func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// dijkstraAll returns the full distance map from src, used by
// AllShortestPaths to find every tied-shortest path rather than just one.
func (g *Graph) dijkstraAll(weights map[EdgeVar]int, src string) map[string]int64 {
	dist := make(map[string]int64, len(g.nodes))
	visited := make(map[string]bool, len(g.nodes))
	for n := range g.nodes {
		dist[n] = math.MaxInt64
	}
	dist[src] = 0
	pq := make(nodePQ, 0, len(g.nodes))
	heap.Init(&pq)
	heap.Push(&pq, &nodeItem{id: src, dist: 0})
	for pq.Len() > 0 {
		u := heap.Pop(&pq).(*nodeItem)
		if visited[u.id] {
			continue
		}
		visited[u.id] = true
		for _, e := range g.out[u.id] {
			if visited[e.V] {
				continue
			}
			nd := dist[u.id] + int64(weights[e])
			if nd < dist[e.V] {
				dist[e.V] = nd
				heap.Push(&pq, &nodeItem{id: e.V, dist: nd})
			}
		}
	}
	return dist
}

// AllShortestPaths enumerates every src->dst path tied for minimum cost
// under weights, by a DFS that only follows edges lying on some shortest
// path (dist[u]+w(u,v) == dist[v]) — the standard construction for "all
// shortest paths" given a single-source distance map.
func (g *Graph) AllShortestPaths(weights map[EdgeVar]int, src, dst string) ([][]string, error) {
	if !g.HasNode(src) || !g.HasNode(dst) {
		return nil, fmt.Errorf("shortest path between unknown nodes %s, %s", src, dst)
	}
	dist := g.dijkstraAll(weights, src)
	if dist[dst] == math.MaxInt64 {
		return nil, nil
	}
	var out [][]string
	var walk func(node string, path []string)
	walk = func(node string, path []string) {
		path = append(path, node)
		if node == dst {
			out = append(out, slices.Clone(path))
			return
		}
		for _, e := range g.out[node] {
			if dist[node] == math.MaxInt64 || dist[e.V] == math.MaxInt64 {
				continue
			}
			if dist[node]+int64(weights[e]) == dist[e.V] {
				walk(e.V, path)
			}
		}
	}
	walk(src, nil)
	return out, nil
}

// KShortestPaths returns up to k src->dst paths in non-decreasing cost
// order via Yen's algorithm, run against the concrete weighted graph the
// oracle's CEGAR loop produces each iteration. Grounded on the same
// lvlath Dijkstra building block as [Graph.AllShortestPaths]; Yen's outer
// loop and spur-path bookkeeping follow the algorithm's standard
// presentation (Yen 1971), returning a plain [][]string like the other
// path functions in this package.
func (g *Graph) KShortestPaths(weights map[EdgeVar]int, src, dst string, k int) ([][]string, error) {
	if k <= 0 {
		return nil, nil
	}
	first, ok := g.shortestPath(weights, src, dst, nil, nil)
	if !ok {
		return nil, nil
	}
	A := [][]string{first}
	var B candidateHeap

	for len(A) < k {
		prev := A[len(A)-1]
		for i := 0; i < len(prev)-1; i++ {
			spurNode := prev[i]
			rootPath := prev[:i+1]

			excludeEdges := map[EdgeVar]struct{}{}
			for _, path := range A {
				if len(path) > i && slices.Equal(path[:i+1], rootPath) {
					if e, ok := g.Edge(path[i], path[i+1]); ok {
						excludeEdges[e] = struct{}{}
					}
				}
			}
			excludeNodes := map[string]struct{}{}
			for _, n := range rootPath[:len(rootPath)-1] {
				excludeNodes[n] = struct{}{}
			}

			spurPath, ok := g.shortestPath(weights, spurNode, dst, excludeNodes, excludeEdges)
			if !ok {
				continue
			}
			total := append(slices.Clone(rootPath[:len(rootPath)-1]), spurPath...)
			if containsPath(A, total) || containsCandidate(B, total) {
				continue
			}
			totalEdges, err := g.PathCost(total)
			if err != nil {
				return nil, err
			}
			cost := Weight(weights, totalEdges)
			heap.Push(&B, &candidate{path: total, cost: cost})
		}
		if B.Len() == 0 {
			break
		}
		best := heap.Pop(&B).(*candidate)
		A = append(A, best.path)
	}
	return A, nil
}

type candidate struct {
	path []string
	cost int
}

type candidateHeap []*candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)         { *h = append(*h, x.(*candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func containsPath(paths [][]string, p []string) bool {
	for _, q := range paths {
		if slices.Equal(p, q) {
			return true
		}
	}
	return false
}

func containsCandidate(h candidateHeap, p []string) bool {
	for _, c := range h {
		if slices.Equal(c.path, p) {
			return true
		}
	}
	return false
}
