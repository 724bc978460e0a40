package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/martialmarel/linkrank/pkg/cache"
	apperr "github.com/martialmarel/linkrank/pkg/errors"
)

func testFetcher(t *testing.T, c cache.Cache) *Fetcher {
	t.Helper()
	f := NewFetcher(c)
	f.Backoff = time.Millisecond
	return f
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com/g.json", true},
		{"http://localhost:8080/g.toml", true},
		{"g.json", false},
		{"/tmp/http/g.json", false},
		{"ftp://example.com/g.json", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFetcherGetCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"adjacency":[[1],[0]]}`))
	}))
	defer srv.Close()

	mem, err := cache.NewMemoryCache(8)
	if err != nil {
		t.Fatal(err)
	}
	f := testFetcher(t, mem)
	ctx := context.Background()

	first, err := f.Get(ctx, srv.URL+"/g.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first.Cached || !strings.HasPrefix(first.ContentType, "application/json") {
		t.Errorf("first response = %+v", first)
	}

	second, err := f.Get(ctx, srv.URL+"/g.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !second.Cached || string(second.Body) != string(first.Body) {
		t.Errorf("second response should come from the cache: %+v", second)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestFetcherRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := testFetcher(t, nil).Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(resp.Body) != "ok" || hits.Load() != 3 {
		t.Errorf("body = %q after %d hits, want ok after 3", resp.Body, hits.Load())
	}
}

func TestFetcherErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		code     apperr.Code
		wantHits int32
	}{
		{"not found", http.StatusNotFound, "", apperr.ErrCodeNotFound, 1},
		{"forbidden", http.StatusForbidden, "", apperr.ErrCodeInvalidInput, 1},
		{"server error", http.StatusInternalServerError, "", apperr.ErrCodeNetwork, DefaultAttempts},
		{"too large", http.StatusOK, strings.Repeat("x", 64), apperr.ErrCodeInvalidInput, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := testFetcher(t, nil)
			f.MaxBytes = 32
			_, err := f.Get(context.Background(), srv.URL)
			if !apperr.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
			if hits.Load() != tt.wantHits {
				t.Errorf("hits = %d, want %d", hits.Load(), tt.wantHits)
			}
		})
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return apperr.New(apperr.ErrCodeInvalidInput, "bad")
	})
	if err == nil || calls != 1 {
		t.Errorf("Retry() = %v after %d calls, want error after 1", err, calls)
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Hour, func() error {
		return cache.Retryable(apperr.New(apperr.ErrCodeNetwork, "down"))
	})
	if err != context.Canceled {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}
