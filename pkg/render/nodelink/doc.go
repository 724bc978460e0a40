// Package nodelink renders ranked graphs as node-link diagrams.
//
// # Overview
//
// Nodes appear as rounded boxes connected by arrows. When scores are
// supplied, each label carries the node's score and the outline width grows
// with it, so the most central sites stand out at a glance.
//
// # Usage
//
// Convert a named graph to DOT, then render it:
//
//	dot := nodelink.ToDOT(n, scores, nodelink.Options{Top: 3})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// PNG output is produced the same way with [RenderPNG].
//
// # DOT Format
//
// [ToDOT] emits plain Graphviz source. It can be rendered in-process with
// [RenderSVG], or saved and processed with external Graphviz tools.
// Node identifiers are positional ("n0", "n1", ...) and names appear only in
// labels, so any node name is safe to render.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz and
// needs no system installation.
package nodelink
