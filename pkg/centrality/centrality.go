// Package centrality computes degree-based and distance-based centrality
// measures over undirected graphs.
//
// The measures operate on [graph.Undirected], typically obtained with
// [graph.Graph.Symmetrize]:
//
//	u := graph.NewUndirected(5, [][2]int{{0, 1}, {1, 3}, {3, 0}})
//	deg := centrality.Degree(u)
//	cls := centrality.Closeness(u)
//
// Shortest paths and betweenness come from gonum's graph packages.
package centrality

import (
	"math"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/martialmarel/linkrank/pkg/graph"
)

// Degree returns the number of distinct neighbours of every node.
func Degree(u graph.Undirected) []int {
	out := make([]int, len(u))
	for v := range u {
		out[v] = u.Degree(v)
	}
	return out
}

// InverseDegree returns 1/degree for every node, and 0 for isolated nodes.
// Lower values mark nodes with more connections.
func InverseDegree(u graph.Undirected) []float64 {
	out := make([]float64, len(u))
	for v := range u {
		if d := u.Degree(v); d > 0 {
			out[v] = 1 / float64(d)
		}
	}
	return out
}

// Closeness returns the closeness centrality of every node using the
// Wasserman-Faust normalisation, which stays meaningful on disconnected
// graphs:
//
//	C(v) = (r-1)/(n-1) * (r-1)/sum(d(v, w))
//
// where r is the number of nodes reachable from v (including v) and the sum
// runs over those nodes. Isolated nodes and single-node graphs score 0.
func Closeness(u graph.Undirected) []float64 {
	n := len(u)
	out := make([]float64, n)
	if n < 2 {
		return out
	}

	g := toGonum(u)
	paths := path.DijkstraAllPaths(g)
	inv := network.Closeness(g, paths)
	for v := range u {
		reached := 0
		for w := range u {
			if !math.IsInf(paths.Weight(int64(w), int64(v)), 1) {
				reached++
			}
		}
		if reached < 2 {
			continue
		}
		r := float64(reached - 1)
		out[v] = inv[int64(v)] * r * r / float64(n-1)
	}
	return out
}

// Betweenness returns the betweenness centrality of every node: the number
// of shortest paths between other nodes that pass through it, split evenly
// among equally short paths. Paths are counted in both directions, so the
// middle node of a three-node path scores 2.
func Betweenness(u graph.Undirected) []float64 {
	out := make([]float64, len(u))
	if len(u) < 3 {
		return out
	}
	for id, b := range network.Betweenness(toGonum(u)) {
		out[id] = b
	}
	return out
}

// toGonum copies u into a gonum graph whose node IDs are the node indices.
func toGonum(u graph.Undirected) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for v := range u {
		g.AddNode(simple.Node(int64(v)))
	}
	for v, nbrs := range u {
		for _, w := range nbrs {
			if v < w {
				g.SetEdge(simple.Edge{F: simple.Node(int64(v)), T: simple.Node(int64(w))})
			}
		}
	}
	return g
}
