package graph

import (
	"errors"
	"slices"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
)

var (
	// ErrTargetOutOfRange is returned by [Graph.Validate] when an edge points
	// at a node index that is negative or not smaller than the node count.
	ErrTargetOutOfRange = errors.New("edge target out of range")

	// ErrUnknownNode is returned by [FromLinks] when a link names a node that
	// was never declared.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateNode is returned when two nodes share a name.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrNameMismatch is returned by [Named.Validate] when the number of names
	// differs from the number of nodes.
	ErrNameMismatch = errors.New("names do not match node count")
)

// Graph is a directed graph in adjacency-list form. g[u] holds the targets of
// every edge leaving node u, in declaration order.
//
// The zero value is an empty graph.
type Graph [][]int

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g) }

// EdgeCount returns the total number of edges, counting duplicates.
func (g Graph) EdgeCount() int {
	n := 0
	for _, targets := range g {
		n += len(targets)
	}
	return n
}

// OutDegree returns the number of edges leaving u.
func (g Graph) OutDegree(u int) int { return len(g[u]) }

// Dangling returns the indices of nodes with no outgoing edges, ascending.
func (g Graph) Dangling() []int {
	var out []int
	for u, targets := range g {
		if len(targets) == 0 {
			out = append(out, u)
		}
	}
	return out
}

// Validate checks that every edge target lies in [0, NodeCount).
// The returned error carries the INVALID_GRAPH code and wraps
// [ErrTargetOutOfRange].
func (g Graph) Validate() error {
	n := len(g)
	for u, targets := range g {
		for i, v := range targets {
			if v < 0 || v >= n {
				return apperr.Wrap(apperr.ErrCodeInvalidGraph, ErrTargetOutOfRange,
					"node %d edge %d: target %d not in [0, %d)", u, i, v, n)
			}
		}
	}
	return nil
}

// Incoming returns the reverse adjacency: in[v] lists every source u with an
// edge u→v. Sources appear in ascending order and an edge declared twice is
// listed twice, so summing over in[v] visits contributions in the same order
// as a forward pass over g.
//
// Incoming assumes g is valid.
func (g Graph) Incoming() [][]int {
	in := make([][]int, len(g))
	for u, targets := range g {
		for _, v := range targets {
			in[v] = append(in[v], u)
		}
	}
	return in
}

// Clone returns a deep copy of g.
func (g Graph) Clone() Graph {
	if g == nil {
		return nil
	}
	out := make(Graph, len(g))
	for u, targets := range g {
		out[u] = slices.Clone(targets)
	}
	return out
}
