package cache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// exerciseCache runs the shared Get/Set/Delete contract against c.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "rank:a", []byte("scores"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "rank:a")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if !bytes.Equal(data, []byte("scores")) {
		t.Errorf("Get = %q, want %q", data, "scores")
	}

	// Overwrite
	if err := c.Set(ctx, "rank:a", []byte("newer"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, _, _ = c.Get(ctx, "rank:a")
	if string(data) != "newer" {
		t.Errorf("Get after overwrite = %q", data)
	}

	if err := c.Delete(ctx, "rank:a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "rank:a"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "rank:a"); err != nil {
		t.Errorf("Delete of missing key error: %v", err)
	}

	// Expired entries are misses
	if err := c.Set(ctx, "rank:ttl", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "rank:ttl"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCache(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(filepath.Join(dir, "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	fc := c.(*FileCache)

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	path := fc.path("k")
	if !strings.HasPrefix(path, fc.Dir()) {
		t.Errorf("entry path %s outside cache dir %s", path, fc.Dir())
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want clean miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestMemoryCache(t *testing.T) {
	c, err := NewMemoryCache(16)
	if err != nil {
		t.Fatalf("NewMemoryCache error: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatalf("NewMemoryCache error: %v", err)
	}

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_, _, _ = c.Get(ctx, "a") // a becomes most recently used
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("least recently used entry should be evicted")
	}
	if _, hit, _ := c.Get(ctx, "a"); !hit {
		t.Error("recently used entry should survive")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	_ = c.Close()
	if c.Len() != 0 {
		t.Errorf("Len() after Close = %d, want 0", c.Len())
	}
}

func TestMemoryCacheCopiesData(t *testing.T) {
	ctx := context.Background()
	c, _ := NewMemoryCache(0)

	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, 0)
	buf[0] = 'x'

	data, _, _ := c.Get(ctx, "k")
	if string(data) != "abc" {
		t.Errorf("stored data = %q, want abc", data)
	}
}

func TestScoped(t *testing.T) {
	ctx := context.Background()
	inner, _ := NewMemoryCache(8)
	rank := NewScoped(inner, "rank:")
	other := NewScoped(inner, "centrality:")

	_ = rank.Set(ctx, "k", []byte("r"), 0)
	if _, hit, _ := other.Get(ctx, "k"); hit {
		t.Error("scopes should not share keys")
	}
	if _, hit, _ := inner.Get(ctx, "rank:k"); !hit {
		t.Error("scoped key should be stored with prefix")
	}
	_ = rank.Delete(ctx, "k")
	if _, hit, _ := inner.Get(ctx, "rank:k"); hit {
		t.Error("scoped delete should remove prefixed key")
	}

	nilScoped := NewScoped(nil, "p:")
	if _, hit, err := nilScoped.Get(ctx, "k"); hit || err != nil {
		t.Errorf("nil inner should behave like NullCache: %v %v", hit, err)
	}
}

func TestNewRedisCacheInvalidURL(t *testing.T) {
	if _, err := NewRedisCache("not-a-url://"); err == nil {
		t.Error("NewRedisCache should reject invalid URLs")
	}
	c, err := NewRedisCache("redis://localhost:6379/0")
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	_ = c.Close()
}

func TestRedisCacheUnreachable(t *testing.T) {
	defer func(d time.Duration) { retryDelay = d }(retryDelay)
	retryDelay = time.Millisecond

	c, err := NewRedisCache("redis://127.0.0.1:1/0?max_retries=-1&dial_timeout=200ms")
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Ping(ctx); !errors.Is(err, ErrNetwork) {
		t.Errorf("Ping() = %v, want ErrNetwork", err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() = %v, %v; want miss with ErrNetwork", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); !errors.Is(err, ErrNetwork) {
		t.Errorf("Set() = %v, want ErrNetwork", err)
	}
}

// testRedis connects to LINKRANK_TEST_REDIS_URL (default: local database 15)
// and skips the test when no server answers.
func testRedis(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("LINKRANK_TEST_REDIS_URL")
	if url == "" {
		url = "redis://127.0.0.1:6379/15?max_retries=-1&dial_timeout=200ms"
	}
	c, err := NewRedisCache(url)
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		c.Close()
		t.Skipf("redis not available: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRedisCache(t *testing.T) {
	c := testRedis(t)
	ctx := context.Background()
	key := "linkrank-test:" + t.Name()
	t.Cleanup(func() { _ = c.Delete(ctx, key) })

	if _, hit, err := c.Get(ctx, key); hit || err != nil {
		t.Fatalf("Get() on empty key = %v, %v; want miss", hit, err)
	}
	if err := c.Set(ctx, key, []byte("scores"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "scores" {
		t.Fatalf("Get() = %q, %v, %v; want hit", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get() after Delete should miss")
	}

	if err := c.Set(ctx, key, []byte("short"), 50*time.Millisecond); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry should expire after its ttl")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashKey(t *testing.T) {
	g := [][]int{{1}, {0}}
	k1 := HashKey("rank", g, 0.85, 100)
	k2 := HashKey("rank", g, 0.85, 100)
	k3 := HashKey("rank", g, 0.85, 101)

	if k1 != k2 {
		t.Error("HashKey should be deterministic")
	}
	if k1 == k3 {
		t.Error("different parts should produce different keys")
	}
	if !strings.HasPrefix(k1, "rank:") || len(k1) != len("rank:")+64 {
		t.Errorf("unexpected key format: %s", k1)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error should match ErrNetwork")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	if IsRetryable(errors.New("plain")) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()
	plain := errors.New("plain")

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err %v, calls %d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error { calls++; return plain })
	if err != plain || calls != 1 {
		t.Errorf("non-retryable: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err %v, calls %d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !errors.Is(err, ErrNetwork) || calls != 3 {
		t.Errorf("exhausted: err %v, calls %d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
