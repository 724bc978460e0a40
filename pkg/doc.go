// Package pkg provides the libraries behind linkrank.
//
// # Overview
//
// Linkrank scores the nodes of a link graph with PageRank and related
// centrality measures. The pkg directory is organized into four areas:
//
//  1. Domain: [graph], [rank], [centrality]
//  2. Serialization and rendering: [io], [render/nodelink]
//  3. Infrastructure: [cache], [httputil], [observability], [errors], [buildinfo]
//  4. Orchestration: [pipeline] and the HTTP [server]
//
// # Architecture
//
// The typical data flow:
//
//	JSON/TOML graph file or URL
//	         ↓
//	    [io] / [httputil] (decode, fetch)
//	         ↓
//	    [graph] (validated adjacency list)
//	         ↓
//	    [rank] / [centrality] (scores)
//	         ↓
//	    [render/nodelink] (DOT, SVG, PNG)
//
// [pipeline.Runner] ties the stages together and caches results; both the
// CLI and [server] go through it.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/martialmarel/linkrank/pkg/graph"
//	    "github.com/martialmarel/linkrank/pkg/rank"
//	)
//
//	g := graph.Graph{{1, 2}, {0}, {0, 3}, {0}, {0, 1}}
//	p, _ := rank.New(rank.DefaultOptions())
//	res, _ := p.Rank(context.Background(), g)
//	for _, i := range res.Top(3) {
//	    fmt.Println(i, res.Scores[i])
//	}
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/rank/...     # Specific package
//	go test -run Example ./... # Examples only
//
// [graph]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/graph
// [rank]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/rank
// [centrality]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/centrality
// [io]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/io
// [render/nodelink]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/observability
// [errors]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/pipeline#Runner
// [server]: https://pkg.go.dev/github.com/martialmarel/linkrank/pkg/server
package pkg
