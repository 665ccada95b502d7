package credential

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const persistTimeout = 2 * time.Second

// RedisStore is a [Store] that write-throughs every mutation to Redis so
// credentials survive process restarts of the hosting client. Reads are
// served from the in-process cache; persistence failures are swallowed
// because the Store contract forbids a set or clear from failing.
type RedisStore struct {
	cache  *MemoryStore
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		cache:  NewMemoryStore(),
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (r *RedisStore) accessKey() string  { return r.prefix + ":access" }
func (r *RedisStore) refreshKey() string { return r.prefix + ":refresh" }
func (r *RedisStore) csrfKey() string    { return r.prefix + ":csrf" }

// Load hydrates the in-process cache from Redis. Missing keys hydrate as
// absent credentials; a Redis error leaves the cache empty and is returned
// so the caller can decide whether cold-start matters.
func (r *RedisStore) Load(ctx context.Context) error {
	vals, err := r.client.MGet(ctx, r.accessKey(), r.refreshKey(), r.csrfKey()).Result()
	if err != nil {
		return err
	}

	var s Session
	if len(vals) == 3 {
		if v, ok := vals[0].(string); ok {
			s.AccessToken = v
		}
		if v, ok := vals[1].(string); ok {
			s.RefreshToken = v
		}
		if v, ok := vals[2].(string); ok {
			s.CSRFToken = v
		}
	}
	r.cache.Replace(s)
	return nil
}

func (r *RedisStore) persist(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if value == "" {
		_ = r.client.Del(ctx, key).Err()
		return
	}
	_ = r.client.Set(ctx, key, value, r.ttl).Err()
}

// Snapshot describes the snapshot operation and its observable behavior.
func (r *RedisStore) Snapshot() Session {
	return r.cache.Snapshot()
}

// Replace describes the replace operation and its observable behavior.
func (r *RedisStore) Replace(s Session) {
	r.cache.Replace(s)
	r.persist(r.accessKey(), s.AccessToken)
	r.persist(r.refreshKey(), s.RefreshToken)
	r.persist(r.csrfKey(), s.CSRFToken)
}

// Clear describes the clear operation and its observable behavior.
func (r *RedisStore) Clear() {
	r.cache.Clear()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	_ = r.client.Del(ctx, r.accessKey(), r.refreshKey(), r.csrfKey()).Err()
}

// AccessToken describes the accesstoken operation and its observable behavior.
func (r *RedisStore) AccessToken() string {
	return r.cache.AccessToken()
}

// SetAccessToken describes the setaccesstoken operation and its observable behavior.
func (r *RedisStore) SetAccessToken(token string) {
	r.cache.SetAccessToken(token)
	r.persist(r.accessKey(), token)
}

// ClearAccessToken describes the clearaccesstoken operation and its observable behavior.
func (r *RedisStore) ClearAccessToken() {
	r.SetAccessToken("")
}

// RefreshToken describes the refreshtoken operation and its observable behavior.
func (r *RedisStore) RefreshToken() string {
	return r.cache.RefreshToken()
}

// SetRefreshToken describes the setrefreshtoken operation and its observable behavior.
func (r *RedisStore) SetRefreshToken(token string) {
	r.cache.SetRefreshToken(token)
	r.persist(r.refreshKey(), token)
}

// ClearRefreshToken describes the clearrefreshtoken operation and its observable behavior.
func (r *RedisStore) ClearRefreshToken() {
	r.SetRefreshToken("")
}

// CSRFToken describes the csrftoken operation and its observable behavior.
func (r *RedisStore) CSRFToken() string {
	return r.cache.CSRFToken()
}

// SetCSRFToken describes the setcsrftoken operation and its observable behavior.
func (r *RedisStore) SetCSRFToken(token string) {
	r.cache.SetCSRFToken(token)
	r.persist(r.csrfKey(), token)
}

// ClearCSRFToken describes the clearcsrftoken operation and its observable behavior.
func (r *RedisStore) ClearCSRFToken() {
	r.SetCSRFToken("")
}
