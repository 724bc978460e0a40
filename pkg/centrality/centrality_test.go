package centrality

import (
	"math"
	"slices"
	"testing"

	"github.com/martialmarel/linkrank/pkg/graph"
)

// fights is the bout graph between five fighters:
// Poirier(0), Nurmagomedov(1), Aldo(2), McGregor(3), Diaz(4).
var fights = graph.NewUndirected(5, [][2]int{
	{0, 1}, {1, 3}, {3, 0}, {3, 2}, {3, 4}, {0, 4}, {2, 4},
})

func TestDegree(t *testing.T) {
	got := Degree(fights)
	want := []int{3, 2, 2, 4, 3}
	if !slices.Equal(got, want) {
		t.Errorf("Degree() = %v, want %v", got, want)
	}
}

func TestInverseDegree(t *testing.T) {
	got := InverseDegree(fights)
	want := []float64{1.0 / 3, 0.5, 0.5, 0.25, 1.0 / 3}
	if !slices.Equal(got, want) {
		t.Errorf("InverseDegree() = %v, want %v", got, want)
	}

	// McGregor fought everyone, so he has the lowest value.
	if slices.Index(got, slices.Min(got)) != 3 {
		t.Errorf("lowest inverse degree should belong to node 3: %v", got)
	}

	isolated := InverseDegree(graph.Undirected{{}, {}})
	if !slices.Equal(isolated, []float64{0, 0}) {
		t.Errorf("InverseDegree(isolated) = %v, want zeros", isolated)
	}
}

func TestClosenessPath(t *testing.T) {
	// 0 - 1 - 2
	u := graph.NewUndirected(3, [][2]int{{0, 1}, {1, 2}})
	got := Closeness(u)
	want := []float64{2.0 / 3, 1, 2.0 / 3}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Closeness()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClosenessFights(t *testing.T) {
	got := Closeness(fights)
	// McGregor is adjacent to every other fighter.
	if math.Abs(got[3]-1) > 1e-12 {
		t.Errorf("Closeness()[3] = %v, want 1", got[3])
	}
	for i, c := range got {
		if c <= 0 || c > 1 {
			t.Errorf("Closeness()[%d] = %v, want (0, 1]", i, c)
		}
	}
}

func TestClosenessDisconnected(t *testing.T) {
	// {0,1} and {2} are separate components.
	u := graph.NewUndirected(3, [][2]int{{0, 1}})
	got := Closeness(u)
	if got[2] != 0 {
		t.Errorf("isolated node closeness = %v, want 0", got[2])
	}
	// r=2, n=3, sum=1: (1/2) * (1/1)
	if math.Abs(got[0]-0.5) > 1e-12 || math.Abs(got[1]-0.5) > 1e-12 {
		t.Errorf("component closeness = %v, want 0.5", got[:2])
	}
}

func TestClosenessSmallGraphs(t *testing.T) {
	if got := Closeness(graph.Undirected{}); len(got) != 0 {
		t.Errorf("Closeness(empty) = %v", got)
	}
	if got := Closeness(graph.Undirected{{}}); !slices.Equal(got, []float64{0}) {
		t.Errorf("Closeness(single) = %v, want [0]", got)
	}
}

func TestBetweenness(t *testing.T) {
	tests := []struct {
		name string
		u    graph.Undirected
		want []float64
	}{
		{"fights", fights, []float64{1, 0, 0, 4, 1}},
		{"path", graph.NewUndirected(3, [][2]int{{0, 1}, {1, 2}}), []float64{0, 2, 0}},
		{"star", graph.NewUndirected(4, [][2]int{{0, 1}, {0, 2}, {0, 3}}), []float64{6, 0, 0, 0}},
		{"disconnected", graph.NewUndirected(3, [][2]int{{0, 1}}), []float64{0, 0, 0}},
		{"pair", graph.NewUndirected(2, [][2]int{{0, 1}}), []float64{0, 0}},
		{"empty", graph.Undirected{}, []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Betweenness(tt.u)
			if len(got) != len(tt.want) {
				t.Fatalf("Betweenness() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if math.Abs(got[i]-tt.want[i]) > 1e-12 {
					t.Errorf("Betweenness()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestClosenessFightsValues(t *testing.T) {
	got := Closeness(fights)
	want := []float64{0.8, 2.0 / 3, 2.0 / 3, 1, 0.8}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("Closeness()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
