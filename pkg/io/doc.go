// Package io provides JSON and TOML import and export for link graphs.
//
// # Overview
//
// Graph files describe a directed graph either by node name or by index.
// Both encodings decode into a [graph.Named] and are validated before being
// returned, so a successfully imported graph can be ranked directly.
//
// # Name-Based Format
//
// Each node lists the names it links to. Node order defines node indices:
//
//	{
//	  "nodes": [
//	    {"name": "ESPN", "links": ["NFL", "NBA"]},
//	    {"name": "NFL",  "links": ["ESPN"]},
//	    {"name": "NBA",  "links": ["ESPN"]}
//	  ]
//	}
//
// The TOML equivalent uses an array of tables:
//
//	[[node]]
//	name = "ESPN"
//	links = ["NFL", "NBA"]
//
// # Index-Based Format
//
// An adjacency list may be given directly, with optional names:
//
//	{"adjacency": [[1, 2], [0], [0]], "names": ["ESPN", "NFL", "NBA"]}
//
// Nodes without names are labelled by index. A document must not mix
// "nodes" with "adjacency".
//
// # Errors
//
//   - Malformed JSON or TOML: INVALID_FORMAT
//   - Unknown file extension: INVALID_FORMAT
//   - Links to undeclared names or out-of-range indices: INVALID_GRAPH
//   - Missing file: FILE_NOT_FOUND
package io
