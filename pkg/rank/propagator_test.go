package rank

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
	"github.com/martialmarel/linkrank/pkg/graph"
)

// sports is the five-site link graph: ESPN, NFL, NBA, UFC, MLB.
var sports = graph.Graph{{1, 2}, {0}, {0, 3}, {0}, {0, 1}}

func mustNew(t *testing.T, opts Options) *Propagator {
	t.Helper()
	p, err := New(opts)
	if err != nil {
		t.Fatalf("New(%+v) error = %v", opts, err)
	}
	return p
}

func TestRankEmptyGraph(t *testing.T) {
	p := mustNew(t, DefaultOptions())
	res, err := p.Rank(context.Background(), graph.Graph{})
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if res.Scores == nil || len(res.Scores) != 0 {
		t.Errorf("Scores = %v, want empty non-nil slice", res.Scores)
	}
	if res.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0", res.Iterations)
	}
}

func TestRankOutputLength(t *testing.T) {
	p := mustNew(t, DefaultOptions())
	for n := 1; n <= 8; n++ {
		g := make(graph.Graph, n)
		for u := range g {
			g[u] = []int{(u + 1) % n}
		}
		res, err := p.Rank(context.Background(), g)
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}
		if len(res.Scores) != n {
			t.Errorf("len(Scores) = %d, want %d", len(res.Scores), n)
		}
	}
}

func TestRankZeroIterationsIsUniform(t *testing.T) {
	p := mustNew(t, Options{Damping: 0.85, Iterations: 0})
	res, err := p.Rank(context.Background(), sports)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	for i, s := range res.Scores {
		if s != 1.0/5 {
			t.Errorf("Scores[%d] = %v, want 0.2", i, s)
		}
	}
	if res.Delta != 0 {
		t.Errorf("Delta = %v, want 0", res.Delta)
	}
}

func TestRankSingleStepByHand(t *testing.T) {
	// Node 1 is dangling. With damping 0.5 every value is exact in binary.
	g := graph.Graph{{1}, {}}

	tests := []struct {
		name     string
		dangling Dangling
		want     []float64
	}{
		{"drop", DanglingDrop, []float64{0.25, 0.5}},
		{"uniform", DanglingUniform, []float64{0.375, 0.625}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustNew(t, Options{Damping: 0.5, Iterations: 1, Dangling: tt.dangling})
			res, err := p.Rank(context.Background(), g)
			if err != nil {
				t.Fatalf("Rank() error = %v", err)
			}
			if !slices.Equal(res.Scores, tt.want) {
				t.Errorf("Scores = %v, want %v", res.Scores, tt.want)
			}
		})
	}
}

func TestRankSportsGraph(t *testing.T) {
	p := mustNew(t, Options{Damping: 0.85, Iterations: 100})
	res, err := p.Rank(context.Background(), sports)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}

	if top := res.Order()[0]; top != 0 {
		t.Errorf("highest node = %d, want 0 (ESPN); scores %v", top, res.Scores)
	}
	for i := 1; i < len(res.Scores); i++ {
		if res.Scores[i] >= res.Scores[0] {
			t.Errorf("Scores[%d] = %v should be below Scores[0] = %v", i, res.Scores[i], res.Scores[0])
		}
	}
	// No node is dangling, so the mass is conserved.
	if math.Abs(res.Sum()-1) > 1e-12 {
		t.Errorf("Sum() = %v, want 1", res.Sum())
	}
	// MLB has no in-edges and sits on the teleport floor.
	d := 0.85
	if floor := (1 - d) / 5; res.Scores[4] != floor {
		t.Errorf("Scores[4] = %v, want %v", res.Scores[4], floor)
	}
}

func TestRankDeterministic(t *testing.T) {
	p := mustNew(t, Options{Damping: 0.85, Iterations: 100})
	first, err := p.Rank(context.Background(), sports)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	for range 5 {
		again, err := p.Rank(context.Background(), sports)
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}
		if !slices.Equal(first.Scores, again.Scores) {
			t.Fatalf("reruns differ: %v vs %v", first.Scores, again.Scores)
		}
	}
}

func TestRankIsolatedNodes(t *testing.T) {
	d := 0.85
	for _, n := range []int{1, 2, 7} {
		g := make(graph.Graph, n)

		// Dropped mass leaves only the teleport floor.
		drop := mustNew(t, Options{Damping: 0.85, Iterations: 3})
		res, err := drop.Rank(context.Background(), g)
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}
		for i, s := range res.Scores {
			if want := (1 - d) / float64(n); s != want {
				t.Errorf("drop n=%d Scores[%d] = %v, want %v", n, i, s, want)
			}
		}

		// Redistributed mass keeps every node at 1/N.
		uniform := mustNew(t, Options{Damping: 0.85, Iterations: 3, Dangling: DanglingUniform})
		res, err = uniform.Rank(context.Background(), g)
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}
		for i, s := range res.Scores {
			if math.Abs(s-1/float64(n)) > 1e-15 {
				t.Errorf("uniform n=%d Scores[%d] = %v, want %v", n, i, s, 1/float64(n))
			}
		}
	}
}

func TestRankSingleNodeUniformIsExactlyOne(t *testing.T) {
	for _, d := range []float64{0.5, 0.85, 0.99, 1} {
		p := mustNew(t, Options{Damping: d, Iterations: 50, Dangling: DanglingUniform})
		res, err := p.Rank(context.Background(), graph.Graph{{}})
		if err != nil {
			t.Fatalf("Rank() error = %v", err)
		}
		if !slices.Equal(res.Scores, []float64{1}) {
			t.Errorf("damping %v: Scores = %v, want [1]", d, res.Scores)
		}
	}
}

func TestRankMassNeverExceedsOne(t *testing.T) {
	graphs := []graph.Graph{
		{{1}, {}},
		{{1, 2}, {2}, {}},
		{{0}, {0}, {}},
		{{}, {}, {}},
		randomGraph(40, 3, 7),
	}
	p := mustNew(t, Options{Damping: 0.85, Iterations: 25})
	for i, g := range graphs {
		res, err := p.Rank(context.Background(), g)
		if err != nil {
			t.Fatalf("graph %d: Rank() error = %v", i, err)
		}
		if sum := res.Sum(); sum > 1+1e-12 {
			t.Errorf("graph %d: Sum() = %v, want <= 1", i, sum)
		}
		if len(g.Dangling()) > 0 && res.Sum() >= 1 {
			t.Errorf("graph %d has dangling nodes but Sum() = %v", i, res.Sum())
		}
	}
}

func TestRankFixedPoint(t *testing.T) {
	p := mustNew(t, Options{Damping: 0.85, Iterations: 300})
	res, err := p.Rank(context.Background(), sports)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	ok, err := p.IsFixedPoint(sports, res.Scores, 1e-9)
	if err != nil {
		t.Fatalf("IsFixedPoint() error = %v", err)
	}
	if !ok {
		t.Error("300 iterations should reach a fixed point within 1e-9")
	}

	uniform := []float64{0.2, 0.2, 0.2, 0.2, 0.2}
	ok, _ = p.IsFixedPoint(sports, uniform, 1e-9)
	if ok {
		t.Error("uniform vector should not be a fixed point of the sports graph")
	}
}

func TestRankTolerance(t *testing.T) {
	p := mustNew(t, Options{Damping: 0.85, Iterations: 1000, Tolerance: 1e-6})
	res, err := p.Rank(context.Background(), sports)
	if err != nil {
		t.Fatalf("Rank() error = %v", err)
	}
	if res.Iterations >= 1000 {
		t.Errorf("Iterations = %d, want early stop", res.Iterations)
	}
	if res.Delta >= 1e-6 {
		t.Errorf("Delta = %v, want < 1e-6", res.Delta)
	}
}

func TestRankParallelMatchesSerial(t *testing.T) {
	graphs := []graph.Graph{
		sports,
		{{0, 0, 1}, {1}, {}},
		randomGraph(200, 6, 1),
		randomGraph(1000, 4, 2),
	}
	for _, workers := range []int{2, 3, 8, 64} {
		for _, dangling := range []Dangling{DanglingDrop, DanglingUniform} {
			par := mustNew(t, Options{Damping: 0.85, Iterations: 60, Workers: workers, Dangling: dangling})
			ser := mustNew(t, Options{Damping: 0.85, Iterations: 60, Dangling: dangling})
			for i, g := range graphs {
				want, err := ser.Rank(context.Background(), g)
				if err != nil {
					t.Fatalf("serial Rank() error = %v", err)
				}
				got, err := par.Rank(context.Background(), g)
				if err != nil {
					t.Fatalf("parallel Rank() error = %v", err)
				}
				if !slices.Equal(got.Scores, want.Scores) {
					t.Errorf("workers=%d %v graph %d: parallel scores differ from serial", workers, dangling, i)
				}
			}
		}
	}
}

func TestRankInvalidGraph(t *testing.T) {
	p := mustNew(t, DefaultOptions())
	_, err := p.Rank(context.Background(), graph.Graph{{1}, {2}})
	if !errors.Is(err, graph.ErrTargetOutOfRange) {
		t.Errorf("Rank() error = %v, want ErrTargetOutOfRange", err)
	}
	if !apperr.Is(err, apperr.ErrCodeInvalidGraph) {
		t.Errorf("error code = %v, want INVALID_GRAPH", apperr.GetCode(err))
	}
}

func TestRankCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		p := mustNew(t, Options{Damping: 0.85, Iterations: 10, Workers: workers})
		if _, err := p.Rank(ctx, sports); !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: Rank() error = %v, want context.Canceled", workers, err)
		}
	}
}

func TestStepValidatesLength(t *testing.T) {
	p := mustNew(t, DefaultOptions())
	if _, err := p.Step(sports, []float64{1}); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("Step() error = %v, want INVALID_INPUT", err)
	}
	next, err := p.Step(graph.Graph{}, []float64{})
	if err != nil || len(next) != 0 {
		t.Errorf("Step(empty) = %v, %v", next, err)
	}
}

func TestScores(t *testing.T) {
	scores, err := Scores(graph.Graph{{}}, 0.85, 0)
	if err != nil {
		t.Fatalf("Scores() error = %v", err)
	}
	if !slices.Equal(scores, []float64{1}) {
		t.Errorf("Scores() = %v, want [1]", scores)
	}
	if _, err := Scores(sports, 2, 10); !errors.Is(err, ErrInvalidDamping) {
		t.Errorf("Scores() error = %v, want ErrInvalidDamping", err)
	}
}

// randomGraph builds a reproducible graph with up to maxDeg edges per node.
// Roughly one node in five is left dangling.
func randomGraph(n, maxDeg int, seed uint64) graph.Graph {
	r := rand.New(rand.NewPCG(seed, seed*31+7))
	g := make(graph.Graph, n)
	for u := range g {
		if r.IntN(5) == 0 {
			continue
		}
		deg := 1 + r.IntN(maxDeg)
		for range deg {
			g[u] = append(g[u], r.IntN(n))
		}
	}
	return g
}
