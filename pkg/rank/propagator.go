package rank

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
	"github.com/martialmarel/linkrank/pkg/graph"
)

// Propagator ranks directed graphs with a fixed configuration.
//
// A Propagator is immutable after [New] and safe for concurrent use; each
// call to [Propagator.Rank] allocates its own vectors.
type Propagator struct {
	opts Options
}

// New validates opts and returns a Propagator. Invalid options yield an
// INVALID_CONFIG error wrapping one of the ErrInvalid* sentinels.
func New(opts Options) (*Propagator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Propagator{opts: opts}, nil
}

// Options returns the configuration the Propagator was built with.
func (p *Propagator) Options() Options { return p.opts }

// Scores ranks g with the given damping and iteration count using the default
// serial, drop-dangling configuration and returns only the score vector.
func Scores(g graph.Graph, damping float64, iterations int) ([]float64, error) {
	p, err := New(Options{Damping: damping, Iterations: iterations})
	if err != nil {
		return nil, err
	}
	res, err := p.Rank(context.Background(), g)
	if err != nil {
		return nil, err
	}
	return res.Scores, nil
}

// Rank computes one score per node of g, in node-index order.
//
// An empty graph yields an empty vector. A target outside [0, N) yields an
// INVALID_GRAPH error. ctx is checked between iterations; cancellation
// returns ctx.Err().
func (p *Propagator) Rank(ctx context.Context, g graph.Graph) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	n := len(g)
	if n == 0 {
		return &Result{Scores: []float64{}}, nil
	}

	cur := make([]float64, n)
	for i := range cur {
		cur[i] = 1 / float64(n)
	}
	next := make([]float64, n)

	var in [][]int
	if p.parallel(n) {
		in = g.Incoming()
	}

	res := &Result{}
	for k := 0; k < p.opts.Iterations; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if in != nil {
			if err := p.stepParallel(ctx, g, in, cur, next); err != nil {
				return nil, err
			}
		} else {
			p.step(g, cur, next)
		}

		res.Delta = l1(cur, next)
		res.Iterations++
		cur, next = next, cur

		if p.opts.Tolerance > 0 && res.Delta < p.opts.Tolerance {
			break
		}
	}

	res.Scores = cur
	return res, nil
}

// Step applies a single propagation round to scores and returns the new
// vector. scores is not modified.
func (p *Propagator) Step(g graph.Graph, scores []float64) ([]float64, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(scores) != len(g) {
		return nil, apperr.New(apperr.ErrCodeInvalidInput,
			"score vector has %d entries for %d nodes", len(scores), len(g))
	}
	next := make([]float64, len(g))
	if len(g) > 0 {
		p.step(g, scores, next)
	}
	return next, nil
}

// IsFixedPoint reports whether one more round changes no score of g by more
// than tol.
func (p *Propagator) IsFixedPoint(g graph.Graph, scores []float64, tol float64) (bool, error) {
	next, err := p.Step(g, scores)
	if err != nil {
		return false, err
	}
	for i := range next {
		if math.Abs(next[i]-scores[i]) > tol {
			return false, nil
		}
	}
	return true, nil
}

func (p *Propagator) parallel(n int) bool {
	return p.opts.Workers > 1 && n > 1
}

// step pushes every node's share along its out-edges into next.
func (p *Propagator) step(g graph.Graph, cur, next []float64) {
	clear(next)
	var lost float64
	for u, targets := range g {
		if len(targets) == 0 {
			lost += cur[u]
			continue
		}
		share := cur[u] / float64(len(targets))
		for _, v := range targets {
			next[v] += share
		}
	}
	p.finish(next, lost)
}

// stepParallel pulls shares over the reverse adjacency in node ranges.
// Each next[v] sums in[v] in ascending source order, matching step.
func (p *Propagator) stepParallel(ctx context.Context, g graph.Graph, in [][]int, cur, next []float64) error {
	n := len(g)
	shares := make([]float64, n)
	var lost float64
	for u, targets := range g {
		if len(targets) == 0 {
			lost += cur[u]
			continue
		}
		shares[u] = cur[u] / float64(len(targets))
	}

	workers := min(p.opts.Workers, n)
	chunk := (n + workers - 1) / workers

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for v := lo; v < hi; v++ {
				var sum float64
				for _, u := range in[v] {
					sum += shares[u]
				}
				next[v] = sum
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("propagate: %w", err)
	}

	p.finish(next, lost)
	return nil
}

// finish applies damping and the teleport floor in place.
func (p *Propagator) finish(next []float64, lost float64) {
	n := float64(len(next))
	d := p.opts.Damping
	floor := (1 - d) / n

	if p.opts.Dangling == DanglingUniform {
		spread := lost / n
		for i := range next {
			next[i] = (next[i]+spread)*d + floor
		}
		return
	}

	for i := range next {
		next[i] = next[i]*d + floor
	}
}

func l1(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}
