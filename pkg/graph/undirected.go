package graph

import "slices"

// Undirected is a symmetric adjacency list: v is in u[w] exactly when w is in
// u[v]. Neighbour lists are sorted and free of duplicates and self-loops.
type Undirected [][]int

// Symmetrize builds the undirected view of g. Every directed edge u→v becomes
// the undirected edge {u, v}; self-loops and parallel edges collapse.
//
// Symmetrize assumes g is valid.
func (g Graph) Symmetrize() Undirected {
	sets := make([]map[int]struct{}, len(g))
	for i := range sets {
		sets[i] = make(map[int]struct{})
	}
	for u, targets := range g {
		for _, v := range targets {
			if u == v {
				continue
			}
			sets[u][v] = struct{}{}
			sets[v][u] = struct{}{}
		}
	}

	out := make(Undirected, len(g))
	for u, set := range sets {
		nbrs := make([]int, 0, len(set))
		for v := range set {
			nbrs = append(nbrs, v)
		}
		slices.Sort(nbrs)
		out[u] = nbrs
	}
	return out
}

// NewUndirected builds an Undirected graph with n nodes from a list of
// endpoint pairs. Pairs are expected to be in range.
func NewUndirected(n int, pairs [][2]int) Undirected {
	g := make(Graph, n)
	for _, p := range pairs {
		g[p[0]] = append(g[p[0]], p[1])
	}
	return g.Symmetrize()
}

// Degree returns the number of distinct neighbours of u.
func (u Undirected) Degree(v int) int { return len(u[v]) }
