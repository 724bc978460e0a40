package rank

import (
	"cmp"
	"slices"
)

// Result holds the outcome of [Propagator.Rank].
type Result struct {
	// Scores holds one score per node, in node-index order.
	Scores []float64
	// Iterations is the number of rounds actually run. It is lower than the
	// configured count only when a tolerance stopped propagation early.
	Iterations int
	// Delta is the L1 change produced by the last round (0 when no round ran).
	Delta float64
}

// Sum returns the total rank mass.
func (r *Result) Sum() float64 {
	var s float64
	for _, v := range r.Scores {
		s += v
	}
	return s
}

// Order returns node indices sorted by descending score. Ties keep the lower
// index first.
func (r *Result) Order() []int {
	idx := make([]int, len(r.Scores))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(r.Scores[b], r.Scores[a])
	})
	return idx
}

// Top returns the indices of the k highest-scoring nodes. k <= 0 or
// k > len(Scores) returns every node.
func (r *Result) Top(k int) []int {
	order := r.Order()
	if k <= 0 || k > len(order) {
		return order
	}
	return order[:k]
}
