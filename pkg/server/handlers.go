package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	apperr "github.com/martialmarel/linkrank/pkg/errors"
	"github.com/martialmarel/linkrank/pkg/graph"
	graphio "github.com/martialmarel/linkrank/pkg/io"
	"github.com/martialmarel/linkrank/pkg/pipeline"
	"github.com/martialmarel/linkrank/pkg/rank"
	"github.com/martialmarel/linkrank/pkg/render/nodelink"
)

// graphRequest is the part shared by every POST body.
type graphRequest struct {
	Graph json.RawMessage `json:"graph"`
}

// rankRequest is the body of POST /v1/rank. Omitted fields take the
// defaults of [rank.DefaultOptions].
type rankRequest struct {
	graphRequest
	Damping    *float64 `json:"damping,omitempty"`
	Iterations *int     `json:"iterations,omitempty"`
	Dangling   string   `json:"dangling,omitempty"`
	Tolerance  float64  `json:"tolerance,omitempty"`
	Workers    int      `json:"workers,omitempty"`
	Top        int      `json:"top,omitempty"`
}

type rankResponse struct {
	RunID      string           `json:"run_id"`
	Nodes      int              `json:"nodes"`
	Edges      int              `json:"edges"`
	Iterations int              `json:"iterations"`
	Delta      float64          `json:"delta"`
	Sum        float64          `json:"sum"`
	CacheHit   bool             `json:"cache_hit"`
	DurationMS float64          `json:"duration_ms"`
	Scores     []float64        `json:"scores"`
	Ranking    []pipeline.Entry `json:"ranking"`
}

type centralityResponse struct {
	RunID   string            `json:"run_id"`
	Nodes   []centralityEntry `json:"nodes"`
	Elapsed float64           `json:"duration_ms"`
}

type centralityEntry struct {
	Name          string  `json:"name"`
	Degree        int     `json:"degree"`
	InverseDegree float64 `json:"inverse_degree"`
	Closeness     float64 `json:"closeness"`
	Betweenness   float64 `json:"betweenness"`
}

// renderRequest is the body of POST /v1/render. When Scores is true the
// graph is ranked with default options first.
type renderRequest struct {
	graphRequest
	Format  string `json:"format,omitempty"`
	Scores  bool   `json:"scores,omitempty"`
	Top     int    `json:"top,omitempty"`
	RankDir string `json:"rankdir,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	n, err := req.named()
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := req.options()
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Rank(r.Context(), n, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ranking := res.Ranked()
	if req.Top > 0 && req.Top < len(ranking) {
		ranking = ranking[:req.Top]
	}
	writeJSON(w, http.StatusOK, rankResponse{
		RunID:      res.RunID.String(),
		Nodes:      res.Stats.NodeCount,
		Edges:      res.Stats.EdgeCount,
		Iterations: res.Iterations,
		Delta:      res.Delta,
		Sum:        res.Sum(),
		CacheHit:   res.Stats.CacheHit,
		DurationMS: float64(res.Stats.Duration.Microseconds()) / 1000,
		Scores:     res.Scores,
		Ranking:    ranking,
	})
}

func (s *Server) handleCentrality(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	n, err := req.named()
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Centrality(r.Context(), n)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := centralityResponse{
		RunID:   res.RunID.String(),
		Nodes:   make([]centralityEntry, len(res.Names)),
		Elapsed: float64(res.Stats.Duration.Microseconds()) / 1000,
	}
	for i, name := range res.Names {
		out.Nodes[i] = centralityEntry{
			Name:          name,
			Degree:        res.Degree[i],
			InverseDegree: res.InverseDegree[i],
			Closeness:     res.Closeness[i],
			Betweenness:   res.Betweenness[i],
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Format == "" {
		req.Format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(req.Format); err != nil {
		s.writeError(w, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "format"))
		return
	}
	if err := nodelink.ValidateRankDir(req.RankDir); err != nil {
		s.writeError(w, err)
		return
	}
	n, err := req.named()
	if err != nil {
		s.writeError(w, err)
		return
	}

	var scores []float64
	if req.Scores {
		res, err := s.runner.Rank(r.Context(), n, rank.DefaultOptions())
		if err != nil {
			s.writeError(w, err)
			return
		}
		scores = res.Scores
	}

	data, err := s.runner.Render(r.Context(), n, scores, req.Format, nodelink.Options{
		Top:     req.Top,
		RankDir: req.RankDir,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(req.Format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (req graphRequest) named() (graph.Named, error) {
	if len(req.Graph) == 0 || string(req.Graph) == "null" {
		return graph.Named{}, apperr.New(apperr.ErrCodeInvalidInput, "missing graph")
	}
	return graphio.ReadJSON(bytes.NewReader(req.Graph))
}

func (req rankRequest) options() (rank.Options, error) {
	opts := rank.DefaultOptions()
	if req.Damping != nil {
		opts.Damping = *req.Damping
	}
	if req.Iterations != nil {
		opts.Iterations = *req.Iterations
	}
	if req.Workers != 0 {
		opts.Workers = req.Workers
	}
	opts.Tolerance = req.Tolerance

	d, err := rank.ParseDangling(req.Dangling)
	if err != nil {
		return rank.Options{}, err
	}
	opts.Dangling = d
	return opts, opts.Validate()
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	}
	return "text/vnd.graphviz; charset=utf-8"
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	switch {
	case apperr.IsInvalid(err):
		return http.StatusBadRequest
	case apperr.Is(err, apperr.ErrCodeNotFound), apperr.Is(err, apperr.ErrCodeFileNotFound):
		return http.StatusNotFound
	case apperr.Is(err, apperr.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	code := apperr.GetCode(err)
	if code == "" {
		code = apperr.ErrCodeInternal
	}

	msg := apperr.UserMessage(err)
	var e *apperr.Error
	if errors.As(err, &e) && e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
