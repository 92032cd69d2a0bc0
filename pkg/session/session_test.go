package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	terrors "github.com/matzehuels/trazo/pkg/errors"
)

func TestNew(t *testing.T) {
	s := New("", time.Hour)
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("generated id %q is not a uuid: %v", s.ID, err)
	}
	if s.IsExpired() {
		t.Error("fresh session should not be expired")
	}
	if New("abc", time.Hour).ID != "abc" {
		t.Error("explicit id should be kept")
	}
	if New("", time.Hour).ID == s.ID {
		t.Error("generated ids should differ")
	}
}

func TestSessionState(t *testing.T) {
	s := New("s1", time.Hour)
	s.AddEmojis("😊", "🌊")
	s.AddEmojis("🔥")
	if len(s.Emojis) != 3 || s.Emojis[2] != "🔥" {
		t.Errorf("emojis = %v", s.Emojis)
	}
	if s.HasInterpretation() {
		t.Error("no interpretation yet")
	}
	s.SetInterpretation("Un río sereno.")
	if !s.HasInterpretation() {
		t.Error("interpretation should be set")
	}
	s.Reset()
	if len(s.Emojis) != 0 || s.HasInterpretation() {
		t.Errorf("Reset left state behind: %+v", s)
	}
}

func TestSessionExpiry(t *testing.T) {
	s := New("s1", -time.Minute)
	if !s.IsExpired() {
		t.Error("negative ttl should be expired")
	}
	s.Touch(time.Hour)
	if s.IsExpired() {
		t.Error("Touch should extend expiry")
	}
	var zero Session
	if zero.IsExpired() {
		t.Error("zero expiry means no expiry")
	}
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer store.Close()

			got, err := store.Get(ctx, "missing")
			if err != nil || got != nil {
				t.Fatalf("Get missing = %v, %v", got, err)
			}

			s := New("abc-123", time.Hour)
			s.AddEmojis("😊", "💚")
			s.SetInterpretation("alegría tranquila")
			if err := store.Set(ctx, s); err != nil {
				t.Fatalf("Set: %v", err)
			}

			got, err = store.Get(ctx, "abc-123")
			if err != nil || got == nil {
				t.Fatalf("Get = %v, %v", got, err)
			}
			if len(got.Emojis) != 2 || got.Interpretation != "alegría tranquila" {
				t.Errorf("round trip lost data: %+v", got)
			}

			if err := store.Delete(ctx, "abc-123"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if got, _ := store.Get(ctx, "abc-123"); got != nil {
				t.Error("session should be gone after Delete")
			}
		})
	}
}

func TestStoreExpired(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set(ctx, New("old", -time.Second)); err != nil {
				t.Fatal(err)
			}
			if err := store.Set(ctx, New("new", time.Hour)); err != nil {
				t.Fatal(err)
			}
			if got, _ := store.Get(ctx, "old"); got != nil {
				t.Error("expired session should read as missing")
			}
			if err := store.Cleanup(ctx); err != nil {
				t.Fatal(err)
			}
			if got, _ := store.Get(ctx, "new"); got == nil {
				t.Error("Cleanup removed a live session")
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := New("s", time.Hour)
	s.AddEmojis("😊")
	_ = store.Set(ctx, s)

	s.AddEmojis("🔥")
	got, _ := store.Get(ctx, "s")
	if len(got.Emojis) != 1 {
		t.Errorf("store should not alias caller state: %v", got.Emojis)
	}
	got.Emojis[0] = "💔"
	again, _ := store.Get(ctx, "s")
	if again.Emojis[0] != "😊" {
		t.Error("returned sessions should be copies")
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	_ = store.Set(ctx, New("a", time.Minute))
	_ = store.Set(ctx, New("b", time.Hour))

	now = now.Add(10 * time.Minute)
	_ = store.Cleanup(ctx)
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	for _, id := range []string{"a", "b", "c"} {
		_ = store.Set(ctx, New(id, time.Minute))
	}
	_ = store.Set(ctx, New("d", time.Hour))
	now = now.Add(10 * time.Minute)

	tick := make(chan time.Time)
	done := make(chan struct{})
	go func() {
		Sweep(ctx, store, tick, func(err error) { t.Errorf("cleanup: %v", err) })
		close(done)
	}()

	tick <- now
	close(tick)
	<-done
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestSweepStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Sweep(ctx, NewMemoryStore(), make(chan time.Time), nil)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Sweep did not return after cancel")
	}
}

func TestFileStoreRejectsUnsafeIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "sessions"))
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"../escape", "a/b", ""} {
		if err := store.Set(ctx, &Session{ID: id}); !terrors.Is(err, terrors.ErrCodeInvalidSession) {
			t.Errorf("Set(%q) error = %v, want invalid session", id, err)
		}
		if _, err := store.Get(ctx, id); err == nil {
			t.Errorf("Get(%q) should fail", id)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.json")); !os.IsNotExist(err) {
		t.Error("session file escaped the base directory")
	}
}

func TestFileStorePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if store.Path() != dir {
		t.Errorf("Path() = %s, want %s", store.Path(), dir)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TRAZO_TEST_REDIS")
	if addr == "" {
		t.Skip("TRAZO_TEST_REDIS not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatal(err)
	}
	store := NewRedisStore(client, "trazo-test:session:")
	defer store.Close()

	s := New("", time.Minute)
	s.AddEmojis("🌙")
	if err := store.Set(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, s.ID)
	if err != nil || got == nil || got.Emojis[0] != "🌙" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	_ = store.Delete(ctx, s.ID)
}
