package goAuthClient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/internal/rate"
	"github.com/MrEthical07/goAuthClient/jwt"
	"github.com/MrEthical07/goAuthClient/refresh"
	"github.com/redis/go-redis/v9"
)

const hydrateTimeout = 5 * time.Second

// Builder defines a public type used by goAuthClient APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	transport http.RoundTripper
	store     credential.Store
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL sets the origin relative request URLs resolve against,
// leaving the rest of the config at its defaults.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.Endpoints.BaseURL = baseURL
	return b
}

// WithRedis enables Redis-backed credential persistence so the session
// survives restarts of the hosting client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithTransport sets the underlying round tripper. Defaults to
// http.DefaultTransport.
func (b *Builder) WithTransport(rt http.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// WithCredentialStore overrides credential storage entirely; WithRedis is
// ignored when a store is supplied.
func (b *Builder) WithCredentialStore(store credential.Store) *Builder {
	b.store = store
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(cfg.Endpoints.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	store := b.store
	if store == nil {
		if b.redis != nil {
			redisStore := credential.NewRedisStore(b.redis, cfg.Credential.RedisPrefix, cfg.Credential.TTL)

			ctx, cancel := context.WithTimeout(context.Background(), hydrateTimeout)
			defer cancel()
			if err := redisStore.Load(ctx); err != nil {
				return nil, fmt.Errorf("hydrate credential store: %w", err)
			}
			store = redisStore
		} else {
			store = credential.NewMemoryStore()
		}
	}

	transport := b.transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	// One cookie jar shared by application traffic and the token service,
	// so cookie-only renewal is visible to every subsequent request.
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	httpClient := &http.Client{
		Transport: transport,
		Jar:       jar,
		Timeout:   cfg.Transport.RequestTimeout,
	}

	tokens, err := newTokenService(cfg, httpClient)
	if err != nil {
		return nil, err
	}

	c := &Client{
		config:    cfg,
		base:      base,
		store:     store,
		tokens:    tokens,
		inspector: jwt.NewInspector(),
		http:      httpClient,
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
	}

	if cfg.Refresh.MinInterval > 0 {
		c.refreshGuard = rate.NewInterval(cfg.Refresh.MinInterval)
	}

	c.coordinator = refresh.NewCoordinator(c.runRefresh)

	b.built = true
	return c, nil
}
