package io

import (
	"path/filepath"
	"strings"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
	"github.com/martialmarel/linkrank/pkg/graph"
)

// Format identifies a graph file encoding.
type Format string

// Supported graph file formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat,
		"unsupported graph file %q (want .json or .toml)", filepath.Base(path))
}

// document is the on-disk shape shared by the JSON and TOML encodings.
type document struct {
	Nodes     []node   `json:"nodes,omitempty" toml:"node,omitempty"`
	Adjacency [][]int  `json:"adjacency,omitempty" toml:"adjacency,omitempty"`
	Names     []string `json:"names,omitempty" toml:"names,omitempty"`
}

type node struct {
	Name  string   `json:"name" toml:"name"`
	Links []string `json:"links,omitempty" toml:"links,omitempty"`
}

// toNamed converts a decoded document into a validated graph.
func (d document) toNamed() (graph.Named, error) {
	if len(d.Nodes) > 0 && (len(d.Adjacency) > 0 || len(d.Names) > 0) {
		return graph.Named{}, apperr.New(apperr.ErrCodeInvalidFormat,
			"document mixes \"nodes\" with \"adjacency\"/\"names\"")
	}

	if len(d.Nodes) > 0 {
		links := make([]graph.Link, len(d.Nodes))
		for i, n := range d.Nodes {
			links[i] = graph.Link{Name: n.Name, Targets: n.Links}
		}
		return graph.FromLinks(links)
	}

	g := graph.Graph(d.Adjacency)
	for u := range g {
		if g[u] == nil {
			g[u] = []int{}
		}
	}
	names := d.Names
	if len(names) == 0 {
		names = nil
	}
	n := graph.NewNamed(g, names)
	if err := n.Validate(); err != nil {
		return graph.Named{}, err
	}
	return n, nil
}

// fromNamed builds the name-based document for n.
func fromNamed(n graph.Named) document {
	links := n.Links()
	doc := document{Nodes: make([]node, len(links))}
	for i, l := range links {
		doc.Nodes[i] = node{Name: l.Name, Links: l.Targets}
	}
	return doc
}
