package goAuthClient

import (
	"context"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/goAuthClient/credential"
	"github.com/MrEthical07/goAuthClient/internal/rate"
	"github.com/MrEthical07/goAuthClient/jwt"
	"github.com/MrEthical07/goAuthClient/refresh"
)

// Client defines a public type used by goAuthClient APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	config       Config
	base         *url.URL
	store        credential.Store
	tokens       *tokenService
	coordinator  *refresh.Coordinator
	refreshGuard *rate.IntervalLimiter
	inspector    *jwt.Inspector
	http         *http.Client
	audit        *auditDispatcher
	metrics      *Metrics

	// terminated latches after a failed refresh; every dispatch fails fast
	// until SetCredentials or Reset re-arms the client.
	terminated atomic.Bool
}

// Close describes the close operation and its observable behavior.
//
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

// AuditDroppedByType reports dropped audit events broken down by event type.
func (c *Client) AuditDroppedByType() map[string]uint64 {
	if c == nil || c.audit == nil {
		return map[string]uint64{}
	}
	return c.audit.DroppedByType()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// Session returns an atomic snapshot of the three credential fields.
func (c *Client) Session() credential.Session {
	if c == nil || c.store == nil {
		return credential.Session{}
	}
	return c.store.Snapshot()
}

// SetCredentials installs a fresh session (typically after login) and
// re-arms a terminated client.
func (c *Client) SetCredentials(s credential.Session) {
	if c == nil || c.store == nil {
		return
	}
	c.store.Replace(s)
	c.refreshGuard.Reset()
	c.terminated.Store(false)
}

// Reset clears the session and re-arms the client without installing new
// credentials. The next mutating request starts from a cold CSRF cache.
func (c *Client) Reset() {
	if c == nil || c.store == nil {
		return
	}
	c.store.Clear()
	c.refreshGuard.Reset()
	c.terminated.Store(false)
}

// Terminated reports whether the session reached terminal failure. The
// hosting application should treat true as "redirect to login".
func (c *Client) Terminated() bool {
	return c != nil && c.terminated.Load()
}

// RefreshState exposes the coordinator state for introspection.
func (c *Client) RefreshState() refresh.State {
	if c == nil || c.coordinator == nil {
		return refresh.StateIdle
	}
	return c.coordinator.State()
}

func (c *Client) emitAudit(ctx context.Context, eventType string, success bool, p *pendingRequest, status int, errVal error) {
	if c.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		StatusCode: status,
		Success:    success,
	}
	if p != nil {
		event.RequestID = p.id
		event.Method = p.req.Method
		event.URL = p.req.URL
	}
	if errVal != nil {
		event.Error = errVal.Error()
	}

	c.audit.Emit(ctx, event)
}

// isTokenEndpoint reports whether the request targets the token exchange or
// CSRF endpoint. Responses from those paths never enter recovery, so the
// pipeline cannot recurse into itself. A matching path on a foreign host is
// not a token endpoint; only the configured base serves them.
func (c *Client) isTokenEndpoint(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.IsAbs() && c.base != nil && u.Host != c.base.Host {
		return false
	}
	return u.Path == c.config.Endpoints.RefreshPath || u.Path == c.config.Endpoints.CSRFPath
}

// resolveURL turns a possibly relative request URL into an absolute one.
func (c *Client) resolveURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return rawURL, nil
	}
	return c.base.ResolveReference(u).String(), nil
}
