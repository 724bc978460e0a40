package graph

import (
	"fmt"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
)

// Named pairs a [Graph] with a display name for each node.
// Names[i] labels node i.
type Named struct {
	Names []string
	Graph Graph
}

// Link declares a node by name together with the names it links to.
type Link struct {
	Name    string
	Targets []string
}

// NewNamed builds a Named graph from an index-based adjacency list. When
// names is nil, nodes are labelled by their index.
func NewNamed(g Graph, names []string) Named {
	if names == nil {
		names = make([]string, len(g))
		for i := range g {
			names[i] = fmt.Sprintf("%d", i)
		}
	}
	return Named{Names: names, Graph: g}
}

// FromLinks resolves name-based links into a Named graph. Nodes take their
// index from declaration order; targets keep their listed order.
//
// Errors carry the INVALID_GRAPH code and wrap [ErrDuplicateNode] or
// [ErrUnknownNode].
func FromLinks(links []Link) (Named, error) {
	index := make(map[string]int, len(links))
	names := make([]string, len(links))
	for i, l := range links {
		if err := apperr.ValidateNodeName(l.Name); err != nil {
			return Named{}, fmt.Errorf("node %d: %w", i, err)
		}
		if _, dup := index[l.Name]; dup {
			return Named{}, apperr.Wrap(apperr.ErrCodeInvalidGraph, ErrDuplicateNode, "node %q", l.Name)
		}
		index[l.Name] = i
		names[i] = l.Name
	}

	g := make(Graph, len(links))
	for i, l := range links {
		targets := make([]int, 0, len(l.Targets))
		for _, t := range l.Targets {
			v, ok := index[t]
			if !ok {
				return Named{}, apperr.Wrap(apperr.ErrCodeInvalidGraph, ErrUnknownNode,
					"node %q links to %q", l.Name, t)
			}
			targets = append(targets, v)
		}
		g[i] = targets
	}
	return Named{Names: names, Graph: g}, nil
}

// Links converts n back into name-based links, the inverse of [FromLinks].
func (n Named) Links() []Link {
	out := make([]Link, len(n.Graph))
	for u, targets := range n.Graph {
		l := Link{Name: n.Names[u], Targets: make([]string, len(targets))}
		for i, v := range targets {
			l.Targets[i] = n.Names[v]
		}
		out[u] = l
	}
	return out
}

// Validate checks the adjacency with [Graph.Validate] and verifies that there
// is exactly one valid, unique name per node.
func (n Named) Validate() error {
	if len(n.Names) != len(n.Graph) {
		return apperr.Wrap(apperr.ErrCodeInvalidGraph, ErrNameMismatch,
			"%d names for %d nodes", len(n.Names), len(n.Graph))
	}
	seen := make(map[string]struct{}, len(n.Names))
	for i, name := range n.Names {
		if err := apperr.ValidateNodeName(name); err != nil {
			return fmt.Errorf("node %d: %w", i, err)
		}
		if _, dup := seen[name]; dup {
			return apperr.Wrap(apperr.ErrCodeInvalidGraph, ErrDuplicateNode, "node %q", name)
		}
		seen[name] = struct{}{}
	}
	return n.Graph.Validate()
}

// NodeCount returns the number of nodes.
func (n Named) NodeCount() int { return len(n.Graph) }

// EdgeCount returns the number of edges.
func (n Named) EdgeCount() int { return n.Graph.EdgeCount() }
