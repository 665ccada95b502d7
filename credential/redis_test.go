package credential

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, "ac", ttl), mr
}

func TestRedisStoreWriteThrough(t *testing.T) {
	store, mr := newRedisStore(t, 0)

	store.SetAccessToken("A1")
	store.SetRefreshToken("R1")
	store.SetCSRFToken("C1")

	if got, _ := mr.Get("ac:access"); got != "A1" {
		t.Fatalf("access token not persisted, got %q", got)
	}
	if got, _ := mr.Get("ac:refresh"); got != "R1" {
		t.Fatalf("refresh token not persisted, got %q", got)
	}
	if got, _ := mr.Get("ac:csrf"); got != "C1" {
		t.Fatalf("csrf token not persisted, got %q", got)
	}

	// Reads come from the cache, not Redis.
	mr.Close()
	if got := store.AccessToken(); got != "A1" {
		t.Fatalf("read must be served from cache, got %q", got)
	}
}

func TestRedisStoreClearRemovesKeys(t *testing.T) {
	store, mr := newRedisStore(t, 0)

	store.Replace(Session{AccessToken: "A1", RefreshToken: "R1", CSRFToken: "C1"})
	store.Clear()

	if !store.Snapshot().Empty() {
		t.Fatalf("expected empty session, got %+v", store.Snapshot())
	}
	for _, key := range []string{"ac:access", "ac:refresh", "ac:csrf"} {
		if mr.Exists(key) {
			t.Fatalf("key %s must be deleted", key)
		}
	}
}

func TestRedisStoreLoadHydrates(t *testing.T) {
	store, mr := newRedisStore(t, 0)

	// Simulate a previous process having persisted a session.
	mr.Set("ac:access", "A9")
	mr.Set("ac:refresh", "R9")

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	snap := store.Snapshot()
	if snap.AccessToken != "A9" || snap.RefreshToken != "R9" || snap.CSRFToken != "" {
		t.Fatalf("unexpected hydrated session %+v", snap)
	}
}

func TestRedisStoreTTLApplied(t *testing.T) {
	store, mr := newRedisStore(t, time.Hour)

	store.SetAccessToken("A1")
	if ttl := mr.TTL("ac:access"); ttl != time.Hour {
		t.Fatalf("expected 1h TTL, got %s", ttl)
	}
}

func TestRedisStoreClearSurvivesDeadBackend(t *testing.T) {
	store, mr := newRedisStore(t, 0)
	store.SetAccessToken("A1")

	mr.Close()

	// Set and clear must never fail, even with the backend gone.
	store.SetRefreshToken("R1")
	store.Clear()
	if !store.Snapshot().Empty() {
		t.Fatalf("expected empty cached session, got %+v", store.Snapshot())
	}
}
