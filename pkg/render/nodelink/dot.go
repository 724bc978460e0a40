package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
	"github.com/martialmarel/linkrank/pkg/graph"
	"github.com/martialmarel/linkrank/pkg/rank"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Top highlights the k highest-scoring nodes. Zero highlights none.
	Top int

	// RankDir is the Graphviz layout direction: TB, LR, BT or RL, in any
	// case. Empty or unknown values mean "LR"; use [ValidateRankDir] to
	// reject unknown values instead.
	RankDir string

	// HideScores leaves scores out of node labels.
	HideScores bool
}

var rankDirs = map[string]bool{"TB": true, "LR": true, "BT": true, "RL": true}

// ValidateRankDir reports an INVALID_INPUT error unless dir is empty or one
// of TB, LR, BT and RL (case-insensitive).
func ValidateRankDir(dir string) error {
	if dir == "" || rankDirs[strings.ToUpper(dir)] {
		return nil
	}
	return apperr.New(apperr.ErrCodeInvalidInput,
		"invalid rankdir %q (want TB, LR, BT or RL)", dir)
}

const (
	minPenWidth = 1.0
	maxPenWidth = 6.0
)

// ToDOT converts a named graph to Graphviz DOT format. scores may be nil;
// otherwise it must hold one value per node.
//
// Highlighted nodes are filled gold. Outline width is scaled linearly from
// the lowest to the highest score.
func ToDOT(n graph.Named, scores []float64, opts Options) string {
	if len(scores) != n.NodeCount() {
		scores = nil
	}
	dir := strings.ToUpper(opts.RankDir)
	if !rankDirs[dir] {
		dir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	highlight := topSet(scores, opts.Top)
	lo, hi := bounds(scores)
	for i, name := range n.Names {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(name, scores, i, opts.HideScores))}
		if scores != nil {
			attrs = append(attrs, fmt.Sprintf("penwidth=%.2f", penWidth(scores[i], lo, hi)))
		}
		if highlight[i] {
			attrs = append(attrs, "fillcolor=gold")
		}
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for u, targets := range n.Graph {
		for _, v := range targets {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", u, v)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(name string, scores []float64, i int, hide bool) string {
	if scores == nil || hide {
		return name
	}
	return fmt.Sprintf("%s\n%.4f", name, scores[i])
}

func topSet(scores []float64, k int) map[int]bool {
	set := make(map[int]bool)
	if scores == nil || k <= 0 {
		return set
	}
	r := rank.Result{Scores: scores}
	for _, i := range r.Top(k) {
		set[i] = true
	}
	return set
}

func bounds(scores []float64) (lo, hi float64) {
	for i, s := range scores {
		if i == 0 || s < lo {
			lo = s
		}
		if i == 0 || s > hi {
			hi = s
		}
	}
	return lo, hi
}

func penWidth(s, lo, hi float64) float64 {
	if hi <= lo {
		return minPenWidth
	}
	return minPenWidth + (maxPenWidth-minPenWidth)*(s-lo)/(hi-lo)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox, so browsers scale the image.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
