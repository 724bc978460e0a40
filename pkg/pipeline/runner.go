package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/martialmarel/linkrank/pkg/cache"
	"github.com/martialmarel/linkrank/pkg/centrality"
	"github.com/martialmarel/linkrank/pkg/graph"
	"github.com/martialmarel/linkrank/pkg/httputil"
	graphio "github.com/martialmarel/linkrank/pkg/io"
	"github.com/martialmarel/linkrank/pkg/observability"
	"github.com/martialmarel/linkrank/pkg/rank"
	"github.com/martialmarel/linkrank/pkg/render/nodelink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger

	// TTL is the lifetime of cached results. Zero means DefaultTTL.
	TTL time.Duration

	// Fetcher downloads graphs given as http(s) URLs.
	Fetcher *httputil.Fetcher
}

// NewRunner creates a runner with the given cache and logger.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger, Fetcher: httputil.NewFetcher(c)}
}

// rankKey holds every input that affects the scores. Workers is left out
// because parallel and serial runs produce identical vectors.
type rankKey struct {
	Graph      graph.Graph
	Damping    float64
	Iterations int
	Dangling   string
	Tolerance  float64
}

// cachedRank is the cache payload of a rank run.
type cachedRank struct {
	Scores     []float64 `json:"scores"`
	Iterations int       `json:"iterations"`
	Delta      float64   `json:"delta"`
}

// Load reads and validates a graph file. path may also be an http(s) URL.
func (r *Runner) Load(ctx context.Context, path string) (graph.Named, error) {
	start := time.Now()
	var (
		n   graph.Named
		err error
	)
	if httputil.IsURL(path) {
		n, err = r.fetch(ctx, path)
	} else {
		n, err = graphio.ImportFile(path)
	}
	if err != nil {
		return graph.Named{}, err
	}
	if err := n.Validate(); err != nil {
		return graph.Named{}, fmt.Errorf("load %s: %w", path, err)
	}
	r.Logger.Debug("loaded graph",
		"path", path,
		"nodes", n.NodeCount(),
		"edges", n.EdgeCount(),
		"duration", time.Since(start))
	return n, nil
}

// fetch downloads a graph document. The format comes from the URL path,
// falling back to the response content type.
func (r *Runner) fetch(ctx context.Context, rawURL string) (graph.Named, error) {
	resp, err := r.Fetcher.Get(ctx, rawURL)
	if err != nil {
		return graph.Named{}, err
	}
	r.Logger.Debug("fetched graph", "url", rawURL, "bytes", len(resp.Body), "cached", resp.Cached)

	format, err := remoteFormat(rawURL, resp.ContentType)
	if err != nil {
		return graph.Named{}, err
	}
	return graphio.Read(bytes.NewReader(resp.Body), format)
}

func remoteFormat(rawURL, contentType string) (graphio.Format, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	format, err := graphio.FormatOf(u.Path)
	if err == nil {
		return format, nil
	}
	switch ct := strings.ToLower(contentType); {
	case strings.Contains(ct, "json"):
		return graphio.FormatJSON, nil
	case strings.Contains(ct, "toml"):
		return graphio.FormatTOML, nil
	}
	return "", err
}

// Rank propagates scores over n, serving repeated runs from the cache.
func (r *Runner) Rank(ctx context.Context, n graph.Named, opts rank.Options) (*Result, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	p, err := rank.New(opts)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	result := &Result{
		RunID: uuid.New(),
		Names: n.Names,
		Stats: Stats{NodeCount: n.NodeCount(), EdgeCount: n.EdgeCount()},
	}
	logger := r.Logger.With("run", result.RunID.String())

	key := cache.HashKey("rank", rankKey{
		Graph:      n.Graph,
		Damping:    opts.Damping,
		Iterations: opts.Iterations,
		Dangling:   opts.Dangling.String(),
		Tolerance:  opts.Tolerance,
	})
	if cached, ok := r.lookup(ctx, "rank", key); ok {
		var c cachedRank
		if err := json.Unmarshal(cached, &c); err == nil && len(c.Scores) == n.NodeCount() {
			result.Scores, result.Iterations, result.Delta = c.Scores, c.Iterations, c.Delta
			result.Stats.CacheHit = true
			result.Stats.Duration = time.Since(start)
			logger.Debug("rank served from cache", "nodes", result.Stats.NodeCount)
			return result, nil
		}
	}

	observability.Rank().OnRankStart(ctx, result.Stats.NodeCount, result.Stats.EdgeCount)
	res, err := p.Rank(ctx, n.Graph)
	observability.Rank().OnRankComplete(ctx, result.Stats.NodeCount, iterationsOf(res), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	result.Scores, result.Iterations, result.Delta = res.Scores, res.Iterations, res.Delta
	result.Stats.Duration = time.Since(start)

	if data, err := json.Marshal(cachedRank{Scores: res.Scores, Iterations: res.Iterations, Delta: res.Delta}); err == nil {
		r.store(ctx, "rank", key, data)
	}

	logger.Info("ranked graph",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"iterations", result.Iterations,
		"delta", result.Delta,
		"workers", opts.Workers,
		"duration", result.Stats.Duration)
	return result, nil
}

// Centrality computes degree, inverse-degree, closeness and betweenness
// centrality on the undirected view of n.
func (r *Runner) Centrality(ctx context.Context, n graph.Named) (*CentralityResult, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	u := n.Graph.Symmetrize()
	result := &CentralityResult{
		RunID:         uuid.New(),
		Names:         n.Names,
		Degree:        centrality.Degree(u),
		InverseDegree: centrality.InverseDegree(u),
		Closeness:     centrality.Closeness(u),
		Betweenness:   centrality.Betweenness(u),
		Stats:         Stats{NodeCount: n.NodeCount(), EdgeCount: n.EdgeCount()},
	}
	result.Stats.Duration = time.Since(start)
	observability.Rank().OnCentralityComplete(ctx, result.Stats.NodeCount, result.Stats.Duration)

	r.Logger.Info("computed centrality",
		"run", result.RunID.String(),
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.Duration)
	return result, nil
}

// Render draws n as a node-link diagram in the given format. scores may be
// nil. SVG and PNG output is cached; DOT is cheap enough to rebuild.
func (r *Runner) Render(ctx context.Context, n graph.Named, scores []float64, format string, opts nodelink.Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	if err := nodelink.ValidateRankDir(opts.RankDir); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(n, scores, opts)
	if format == FormatDOT {
		return []byte(dot), nil
	}

	start := time.Now()
	key := cache.HashKey("render", format, cache.Hash([]byte(dot)))
	if data, ok := r.lookup(ctx, "render", key); ok {
		return data, nil
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot)
	}
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r.store(ctx, "render", key, data)

	r.Logger.Info("rendered diagram",
		"format", format,
		"bytes", len(data),
		"duration", time.Since(start))
	return data, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte) {
	ttl := r.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func iterationsOf(res *rank.Result) int {
	if res == nil {
		return 0
	}
	return res.Iterations
}

func order(scores []float64) []int {
	return (&rank.Result{Scores: scores}).Order()
}
