// Package rank computes iterative link-based importance scores (PageRank)
// over a directed [graph.Graph].
//
// # Overview
//
// A [Propagator] holds an immutable configuration (damping factor, iteration
// count, worker count, dangling policy) and ranks any number of graphs:
//
//	p, err := rank.New(rank.Options{Damping: 0.85, Iterations: 100})
//	if err != nil {
//	    return err
//	}
//	res, err := p.Rank(ctx, graph.Graph{{1, 2}, {0}, {0, 3}, {0}, {0, 1}})
//
// # Algorithm
//
// Every node starts at 1/N. Each iteration builds a fresh vector: a node with
// out-degree d hands score/d to each of its targets, every entry is then
// scaled by the damping factor and lifted by (1-damping)/N. The previous
// vector is only read and the next vector only written, so the result does
// not depend on node order.
//
// # Dangling Nodes
//
// By default ([DanglingDrop]) a node without outgoing edges contributes
// nothing, and its mass leaves the system: the vector sums to less than one
// whenever dangling nodes exist. [DanglingUniform] spreads that mass evenly
// over all nodes instead, which keeps the sum at one.
//
// # Parallelism
//
// With Options.Workers > 1 each iteration is split into node ranges computed
// concurrently from the reverse adjacency. Contributions into a node are
// summed in the same order as the serial pass, so serial and parallel runs
// produce bit-identical vectors.
package rank
