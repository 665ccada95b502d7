package goAuthClient

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by goAuthClient APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Endpoints  EndpointsConfig
	Refresh    RefreshConfig
	CSRF       CSRFConfig
	Transport  TransportConfig
	Credential CredentialConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
ENDPOINTS CONFIG
====================================
*/

// EndpointsConfig defines a public type used by goAuthClient APIs.
//
// EndpointsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EndpointsConfig struct {
	// BaseURL is the origin all relative request URLs resolve against.
	BaseURL string
	// RefreshPath is the token exchange endpoint, relative to BaseURL.
	RefreshPath string
	// CSRFPath is the CSRF token endpoint, relative to BaseURL.
	CSRFPath string
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig defines a public type used by goAuthClient APIs.
//
// RefreshConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RefreshConfig struct {
	// Timeout bounds the refresh network call. A timeout is treated
	// identically to a refresh failure.
	Timeout time.Duration

	// MinInterval, when > 0, is the minimum spacing between refresh cycles.
	// A cycle denied by the guard fails with ErrRefreshRateLimited.
	MinInterval time.Duration

	// ExpiryBuffer, when > 0, triggers a refresh before dispatch whenever the
	// held access token is a JWT expiring within the buffer. Opaque tokens
	// are never refreshed proactively.
	ExpiryBuffer time.Duration

	// RequestField is the JSON body field carrying the refresh token on the
	// token exchange call. Cookie-only deployments send an empty object.
	RequestField string
	// AccessField is the JSON response field carrying the new access token.
	AccessField string
	// RotatedField is the JSON response field carrying a rotated refresh
	// token, when the server rotates them.
	RotatedField string
}

/*
====================================
CSRF CONFIG
====================================
*/

// CSRFConfig defines a public type used by goAuthClient APIs.
//
// CSRFConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CSRFConfig struct {
	// Header is the request header the token is attached under.
	Header string
	// ResponseField is the JSON field the CSRF endpoint returns the token in.
	ResponseField string
}

/*
====================================
TRANSPORT CONFIG
====================================
*/

// TransportConfig defines a public type used by goAuthClient APIs.
//
// TransportConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TransportConfig struct {
	// RequestTimeout bounds every application dispatch.
	RequestTimeout time.Duration
	// UserAgent, when set, is attached to every outgoing request.
	UserAgent string
	// RequestIDHeader, when set, carries the per-dispatch correlation ID.
	RequestIDHeader string
}

/*
====================================
CREDENTIAL CONFIG
====================================
*/

// CredentialConfig defines a public type used by goAuthClient APIs.
//
// CredentialConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CredentialConfig struct {
	// RedisPrefix namespaces the persisted token keys.
	RedisPrefix string
	// TTL bounds how long persisted tokens outlive the process. Zero keeps
	// them until cleared.
	TTL time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goAuthClient APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goAuthClient APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Endpoints: EndpointsConfig{
			RefreshPath: "/api/token/refresh/",
			CSRFPath:    "/api/csrf/",
		},
		Refresh: RefreshConfig{
			Timeout:      10 * time.Second,
			RequestField: "refresh",
			AccessField:  "access",
			RotatedField: "refresh",
		},
		CSRF: CSRFConfig{
			Header:        "X-CSRFToken",
			ResponseField: "csrfToken",
		},
		Transport: TransportConfig{
			RequestTimeout:  30 * time.Second,
			RequestIDHeader: "X-Request-ID",
		},
		Credential: CredentialConfig{
			RedisPrefix: "ac",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Endpoints
	if c.Endpoints.BaseURL == "" {
		return errors.New("Endpoints BaseURL is required")
	}
	u, err := url.Parse(c.Endpoints.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("Endpoints BaseURL must be an absolute URL")
	}
	if !strings.HasPrefix(c.Endpoints.RefreshPath, "/") {
		return errors.New("Endpoints RefreshPath must start with '/'")
	}
	if !strings.HasPrefix(c.Endpoints.CSRFPath, "/") {
		return errors.New("Endpoints CSRFPath must start with '/'")
	}

	// Refresh
	if c.Refresh.Timeout <= 0 {
		return errors.New("Refresh Timeout must be > 0")
	}
	if c.Refresh.MinInterval < 0 {
		return errors.New("Refresh MinInterval must be >= 0")
	}
	if c.Refresh.ExpiryBuffer < 0 {
		return errors.New("Refresh ExpiryBuffer must be >= 0")
	}
	if c.Refresh.RequestField == "" {
		return errors.New("Refresh RequestField is required")
	}
	if c.Refresh.AccessField == "" {
		return errors.New("Refresh AccessField is required")
	}

	// CSRF
	if c.CSRF.Header == "" {
		return errors.New("CSRF Header is required")
	}
	if c.CSRF.ResponseField == "" {
		return errors.New("CSRF ResponseField is required")
	}

	// Transport
	if c.Transport.RequestTimeout <= 0 {
		return errors.New("Transport RequestTimeout must be > 0")
	}

	// Credential
	if c.Credential.RedisPrefix == "" {
		return errors.New("Credential RedisPrefix is required")
	}
	if c.Credential.TTL < 0 {
		return errors.New("Credential TTL must be >= 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}
