// Package graph provides the adjacency-list graph types ranked by linkrank.
//
// # Core Types
//
//   - [Graph]: a directed graph as an ordered list of ordered out-edge lists.
//     Node i links to every index in g[i]. Cycles, self-loops, duplicate
//     edges and disconnected subgraphs are all valid.
//   - [Named]: a [Graph] paired with one display name per node.
//   - [Undirected]: a symmetric adjacency without duplicate edges, used by
//     the centrality measures.
//
// # Validation
//
// The only structural constraint on a [Graph] is that every edge target lies
// in [0, N). [Graph.Validate] reports the first offending edge as an
// INVALID_GRAPH error that also matches [ErrTargetOutOfRange]:
//
//	g := graph.Graph{{1, 2}, {0}}
//	if err := g.Validate(); errors.Is(err, graph.ErrTargetOutOfRange) {
//	    // node 0 links to 2, but only nodes 0 and 1 exist
//	}
//
// # Building Named Graphs
//
// Graph files refer to nodes by name. [FromLinks] resolves name-based links
// into indices, preserving declaration order:
//
//	g, err := graph.FromLinks([]graph.Link{
//	    {Name: "ESPN", Targets: []string{"NFL", "NBA"}},
//	    {Name: "NFL", Targets: []string{"ESPN"}},
//	    {Name: "NBA", Targets: []string{"ESPN"}},
//	})
//
// # Concurrency
//
// Graphs are plain slices. They are safe for concurrent reads; callers must
// not mutate a graph while it is being ranked.
package graph
