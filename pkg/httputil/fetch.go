package httputil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/martialmarel/linkrank/pkg/cache"
	apperr "github.com/martialmarel/linkrank/pkg/errors"
)

// Defaults for [NewFetcher].
const (
	DefaultMaxBytes = 8 << 20
	DefaultTimeout  = 30 * time.Second
	DefaultTTL      = time.Hour
	DefaultAttempts = 3
	DefaultBackoff  = time.Second
)

// IsURL reports whether s names a remote document rather than a local path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetcher downloads documents with caching and retries. A Fetcher is safe
// for concurrent use when its Cache is.
type Fetcher struct {
	Client   *http.Client
	Cache    cache.Cache
	TTL      time.Duration
	MaxBytes int64
	Attempts int
	Backoff  time.Duration
}

// NewFetcher returns a Fetcher with default limits. A nil cache disables
// response caching.
func NewFetcher(c cache.Cache) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Fetcher{
		Client:   &http.Client{Timeout: DefaultTimeout},
		Cache:    c,
		TTL:      DefaultTTL,
		MaxBytes: DefaultMaxBytes,
		Attempts: DefaultAttempts,
		Backoff:  DefaultBackoff,
	}
}

// Response is a fetched document.
type Response struct {
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
	Cached      bool   `json:"-"`
}

// Get downloads url, serving repeated requests from the cache.
func (f *Fetcher) Get(ctx context.Context, url string) (*Response, error) {
	key := cache.HashKey("fetch", url)
	if data, ok, err := f.Cache.Get(ctx, key); err == nil && ok {
		var resp Response
		if json.Unmarshal(data, &resp) == nil {
			resp.Cached = true
			return &resp, nil
		}
	}

	var resp *Response
	err := Retry(ctx, f.Attempts, f.Backoff, func() error {
		r, err := f.do(ctx, url)
		resp = r
		return err
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		_ = f.Cache.Set(ctx, key, data, f.TTL)
	}
	return resp, nil
}

func (f *Fetcher) do(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "request %s", url)
	}
	req.Header.Set("Accept", "application/json, application/toml, text/plain")

	res, err := f.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, cache.Retryable(apperr.Wrap(apperr.ErrCodeNetwork, err, "fetch %s", url))
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, apperr.New(apperr.ErrCodeNotFound, "fetch %s: %s", url, res.Status)
	case res.StatusCode == http.StatusTooManyRequests, res.StatusCode >= 500:
		return nil, cache.Retryable(apperr.New(apperr.ErrCodeNetwork, "fetch %s: %s", url, res.Status))
	case res.StatusCode >= 300:
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "fetch %s: %s", url, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, f.MaxBytes+1))
	if err != nil {
		return nil, cache.Retryable(apperr.Wrap(apperr.ErrCodeNetwork, err, "read %s", url))
	}
	if int64(len(body)) > f.MaxBytes {
		return nil, apperr.New(apperr.ErrCodeInvalidInput,
			"fetch %s: body exceeds %d bytes", url, f.MaxBytes)
	}
	return &Response{Body: body, ContentType: res.Header.Get("Content-Type")}, nil
}
