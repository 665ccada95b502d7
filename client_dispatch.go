package goAuthClient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrEthical07/goAuthClient/refresh"
)

// Do is the single entry point for all application traffic. It decorates
// the request with credentials, dispatches it, and interprets the response:
// 2xx and ordinary application errors pass through; authentication failures
// are recovered transparently where policy allows. Do returns
// ErrSessionTerminated once the session is unrecoverable and
// ErrRetryExhausted when a request keeps failing after a successful
// refresh; in the latter case the final response is returned alongside the
// error so the caller can surface the body.
//
// Do may return an error when input validation, dependency calls, or security checks fail.
// Do does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c == nil || c.http == nil {
		return nil, ErrClientNotReady
	}
	if req == nil || req.Method == "" || req.URL == "" {
		return nil, ErrInvalidRequest
	}
	if c.terminated.Load() {
		return nil, ErrSessionTerminated
	}
	if ctx == nil {
		ctx = context.Background()
	}

	p := newPendingRequest(req)
	if id := requestIDFromContext(ctx); id != "" {
		p.id = id
	}

	return c.dispatch(ctx, p)
}

func (c *Client) dispatch(ctx context.Context, p *pendingRequest) (*Response, error) {
	c.maybeRefreshEarly(ctx, p)

	resp, bearerSent, err := c.send(ctx, p)
	if err != nil {
		c.metrics.Inc(MetricDispatchFailure)
		return nil, err
	}

	if resp.OK() {
		c.metrics.Inc(MetricDispatchSuccess)
		return resp, nil
	}

	// Only a 401 outside the token endpoints is an authentication failure
	// the pipeline may recover; every other status belongs to the caller.
	if resp.StatusCode != http.StatusUnauthorized || c.isTokenEndpoint(p.req.URL) {
		return resp, nil
	}

	c.metrics.Inc(MetricAuthChallenge)
	return c.recover(ctx, p, resp, bearerSent)
}

// recover applies the recovery policy in strict order, each branch consuming
// its marker so it runs at most once per request: first drop a suspect
// bearer header, then refresh the session and replay. Once the refresh
// marker is spent no further recovery happens.
func (c *Client) recover(ctx context.Context, p *pendingRequest, resp *Response, bearerSent bool) (*Response, error) {
	if p.refreshed {
		c.metrics.Inc(MetricRetryExhausted)
		c.emitAudit(ctx, auditEventRetryExhausted, false, p, resp.StatusCode, nil)
		return resp, fmt.Errorf("request %s %s: %w", p.req.Method, p.req.URL, ErrRetryExhausted)
	}

	if bearerSent && !p.droppedBearer {
		// Cookie-based session auth may be authoritative; a stale
		// client-held token can cause a false 401.
		p.droppedBearer = true
		c.metrics.Inc(MetricBearerDropRetry)
		c.emitAudit(ctx, auditEventBearerDropRetry, true, p, resp.StatusCode, nil)
		return c.dispatch(ctx, p)
	}

	p.refreshed = true
	out, settled := refresh.Outcome{}, false
	if p.proactive != nil {
		// A proactive cycle already ran for this request; reuse its outcome
		// instead of hitting the refresh endpoint a second time.
		out, settled = *p.proactive, true
	} else {
		if c.coordinator.State() == refresh.StateInProgress {
			c.metrics.Inc(MetricRefreshCoalesced)
		}
		out, settled = c.coordinator.Await(ctx)
	}
	if !settled {
		// The caller abandoned its request while parked; the cycle settles
		// without it and its outcome binds nobody else.
		return nil, fmt.Errorf("refresh after 401 on %s %s: %w", p.req.Method, p.req.URL, out.Err)
	}
	if out.Err != nil {
		c.terminate(ctx, p, out.Err)
		return nil, fmt.Errorf("refresh after 401 on %s %s: %w: %w", p.req.Method, p.req.URL, out.Err, ErrSessionTerminated)
	}

	return c.dispatch(ctx, p)
}

// maybeRefreshEarly triggers the coordinator before dispatch when the held
// access token is a JWT inside the configured expiry buffer. The settled
// outcome is remembered on the pending request so a later 401 on the same
// dispatch reuses it rather than opening a second cycle; dispatch itself
// proceeds regardless, and the 401 path decides what a dead session means.
func (c *Client) maybeRefreshEarly(ctx context.Context, p *pendingRequest) {
	buffer := c.config.Refresh.ExpiryBuffer
	if buffer <= 0 || p.req.SkipAuth || p.refreshed {
		return
	}

	token := c.store.AccessToken()
	if token == "" || !c.inspector.ExpiresWithin(token, buffer) {
		return
	}

	c.metrics.Inc(MetricProactiveRefresh)
	if out, settled := c.coordinator.Await(ctx); settled {
		p.proactive = &out
	}
}

func (c *Client) send(ctx context.Context, p *pendingRequest) (*Response, bool, error) {
	httpReq, bearerSent, err := c.buildHTTPRequest(ctx, p)
	if err != nil {
		return nil, false, err
	}

	start := time.Now()
	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, bearerSent, fmt.Errorf("dispatch %s %s: %w", p.req.Method, p.req.URL, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, bearerSent, fmt.Errorf("read response %s %s: %w", p.req.Method, p.req.URL, err)
	}

	c.metrics.Observe(MetricDispatchLatency, time.Since(start))

	return &Response{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       body,
	}, bearerSent, nil
}

// buildHTTPRequest materializes the request description for one attempt.
// Headers are cloned per attempt so replays never observe a previous
// attempt's decoration.
func (c *Client) buildHTTPRequest(ctx context.Context, p *pendingRequest) (*http.Request, bool, error) {
	target, err := c.resolveURL(p.req.URL)
	if err != nil {
		return nil, false, fmt.Errorf("resolve url %q: %w", p.req.URL, err)
	}

	var body io.Reader
	if len(p.req.Body) > 0 {
		body = bytes.NewReader(p.req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, p.req.Method, target, body)
	if err != nil {
		return nil, false, fmt.Errorf("build request %s %s: %w", p.req.Method, p.req.URL, err)
	}

	for key, values := range p.req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	// Multipart and binary payloads keep their own boundary-bearing
	// Content-Type; the pipeline never overrides it.
	if len(p.req.Body) > 0 && !p.req.Multipart && httpReq.Header.Get("Content-Type") == "" {
		contentType := p.req.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		httpReq.Header.Set("Content-Type", contentType)
	}

	if ua := c.config.Transport.UserAgent; ua != "" && httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", ua)
	}
	if h := c.config.Transport.RequestIDHeader; h != "" {
		httpReq.Header.Set(h, p.id)
	}

	bearerSent := false
	if !p.req.SkipAuth && c.attachBearer(p) {
		if token := c.store.AccessToken(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
			bearerSent = true
		}
	}

	if isMutating(p.req.Method) {
		if token := c.ensureCSRF(ctx, p); token != "" {
			httpReq.Header.Set(c.config.CSRF.Header, token)
		}
	}

	return httpReq, bearerSent, nil
}

// attachBearer decides whether this attempt carries the bearer header. A
// request whose stale-bearer retry was consumed stays bare until a refresh
// has produced a credential worth re-attaching.
func (c *Client) attachBearer(p *pendingRequest) bool {
	if !p.droppedBearer {
		return true
	}
	return p.refreshed
}
