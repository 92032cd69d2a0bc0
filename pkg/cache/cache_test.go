package cache

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if data, hit, err := c.Get(ctx, "key"); hit || data != nil || err != nil {
		t.Errorf("NullCache.Get = %q, %v, %v; want a miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	buf := []byte("a")
	_ = c.Set(ctx, "a", buf, time.Minute)
	buf[0] = 'z'
	if data, hit, _ := c.Get(ctx, "a"); !hit || string(data) != "a" {
		t.Errorf("Get(a) = %q, %v; stored data must be copied", data, hit)
	}

	_ = c.Set(ctx, "b", []byte("b"), 0)
	_ = c.Set(ctx, "c", []byte("c"), 0)
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("oldest entry should be evicted when full")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}

	_ = c.Set(ctx, "d", []byte("d"), time.Minute)
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "d"); hit {
		t.Error("expired entry should miss")
	}
	_ = c.Delete(ctx, "c")
	if _, hit, _ := c.Get(ctx, "c"); hit {
		t.Error("deleted entry should miss")
	}
	if NewMemoryCache(0).limit != DefaultMemoryEntries {
		t.Error("zero limit should use the default")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	a1 := k.AgentKey("gpt-4o-mini", "😊 🌊")
	a2 := k.AgentKey("gpt-4o-mini", "😊 🌊")
	a3 := k.AgentKey("gpt-4o", "😊 🌊")
	if a1 != a2 {
		t.Error("AgentKey should be deterministic")
	}
	if a1 == a3 {
		t.Error("Different models should produce different keys")
	}
	if !strings.HasPrefix(a1, "agent:") {
		t.Errorf("AgentKey unexpected: %s", a1)
	}

	r1 := k.RenderKey("trace", "hola", RenderKeyOpts{WidthIn: 12, HeightIn: 8, DPI: 150})
	r2 := k.RenderKey("trace", "hola", RenderKeyOpts{WidthIn: 12, HeightIn: 8, DPI: 300})
	r3 := k.RenderKey("river", "hola", RenderKeyOpts{WidthIn: 12, HeightIn: 8, DPI: 150})
	if r1 == r2 {
		t.Error("Different RenderKeyOpts should produce different keys")
	}
	if r1 == r3 || !strings.HasPrefix(r3, "render:river:") {
		t.Errorf("Render kind should be part of the key: %s", r3)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "trazo:")

	if got, want := scoped.AgentKey("m", "p"), "trazo:"+inner.AgentKey("m", "p"); got != want {
		t.Errorf("ScopedKeyer AgentKey = %s, want %s", got, want)
	}
	if got := scoped.RenderKey("river", "😊", RenderKeyOpts{}); !strings.HasPrefix(got, "trazo:render:river:") {
		t.Errorf("ScopedKeyer RenderKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	scoped := NewScopedKeyer(nil, "prefix:")
	if key := scoped.AgentKey("m", "p"); !strings.HasPrefix(key, "prefix:agent:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get missing: hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete of missing key should be a no-op: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("x"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("y"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("entry without ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry should be a miss, got hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCacheClearAndPrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "old", []byte("1"), time.Minute)
	_ = c.Set(ctx, "live", []byte("2"), time.Hour)
	_ = c.Set(ctx, "forever", []byte("3"), 0)
	now = now.Add(10 * time.Minute)

	if n, err := c.Prune(); err != nil || n != 1 {
		t.Errorf("Prune = %d, %v; want 1", n, err)
	}
	if _, hit, _ := c.Get(ctx, "live"); !hit {
		t.Error("Prune removed a live entry")
	}
	if n, err := c.Clear(); err != nil || n != 2 {
		t.Errorf("Clear = %d, %v; want 2", n, err)
	}
	if n, _ := c.Clear(); n != 0 {
		t.Error("second Clear should find nothing")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TRAZO_TEST_REDIS")
	if addr == "" {
		t.Skip("TRAZO_TEST_REDIS not set")
	}
	ctx := context.Background()
	client, err := DialRedis(ctx, addr, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	c := NewRedisCache(client, "trazo-test:")
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	_ = c.Delete(ctx, "k")
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestRetryUnwrapsLastError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return Retryable(ErrNetwork)
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("Retry should return the cause, got %v", err)
	}
}
