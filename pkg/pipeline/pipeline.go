// Package pipeline provides the load → rank → render flow shared by the CLI
// and the HTTP server.
//
// By centralizing this logic both entry points validate, cache, and log runs
// the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a JSON or TOML graph file ([Runner.Load])
//  2. Rank: propagate scores or compute centrality ([Runner.Rank], [Runner.Centrality])
//  3. Render: produce DOT, SVG, or PNG diagrams ([Runner.Render])
//
// Each stage can be run on its own. Rank and render results are cached under
// a hash of their inputs, so repeated runs over an unchanged graph are served
// from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, logger)
//	n, err := runner.Load(ctx, "sites.json")
//	if err != nil {
//	    return err
//	}
//	res, err := runner.Rank(ctx, n, rank.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	for _, e := range res.Ranked() {
//	    fmt.Println(e.Position, e.Name, e.Score)
//	}
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long rank and render results stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Format constants for rendered diagrams.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// ValidFormats is the set of supported diagram formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
}

// ValidateFormat checks that a diagram format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png)", format)
	}
	return nil
}

// Result contains the outcome of a rank run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID uuid.UUID

	// Names labels each node; Names[i] belongs to Scores[i].
	Names []string

	// Scores holds one score per node, in node-index order.
	Scores []float64

	// Iterations is the number of propagation rounds performed.
	Iterations int

	// Delta is the L1 change of the last round.
	Delta float64

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains run statistics.
type Stats struct {
	NodeCount int
	EdgeCount int
	Duration  time.Duration
	CacheHit  bool
}

// Entry is one row of a ranking.
type Entry struct {
	Position int     `json:"position"`
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
}

// Ranked returns the nodes ordered by descending score, ties by index.
// Positions start at 1.
func (r *Result) Ranked() []Entry {
	out := make([]Entry, len(r.Scores))
	for pos, i := range order(r.Scores) {
		out[pos] = Entry{Position: pos + 1, Index: i, Name: r.Names[i], Score: r.Scores[i]}
	}
	return out
}

// Sum returns the total rank mass.
func (r *Result) Sum() float64 {
	var s float64
	for _, v := range r.Scores {
		s += v
	}
	return s
}

// CentralityResult contains undirected centrality measures for each node.
type CentralityResult struct {
	RunID         uuid.UUID
	Names         []string
	Degree        []int
	InverseDegree []float64
	Closeness     []float64
	Betweenness   []float64
	Stats         Stats
}
