package goAuthClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// maxTokenBodySize bounds token endpoint responses; both endpoints return
// small JSON objects.
const maxTokenBodySize = 1 << 20

// refreshResult is the settled outcome of one token exchange. Both fields
// are optional on the wire: a cookie-only deployment returns neither and
// renews server-side session cookies instead.
type refreshResult struct {
	AccessToken  string
	RefreshToken string
}

// tokenService performs the two network operations that produce
// credentials. It talks to the transport directly, never through the
// request pipeline, so it cannot recurse into recovery.
type tokenService struct {
	cfg        Config
	http       *http.Client
	refreshURL string
	csrfURL    string
}

func newTokenService(cfg Config, httpClient *http.Client) (*tokenService, error) {
	base, err := url.Parse(cfg.Endpoints.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &tokenService{
		cfg:        cfg,
		http:       httpClient,
		refreshURL: base.ResolveReference(&url.URL{Path: cfg.Endpoints.RefreshPath}).String(),
		csrfURL:    base.ResolveReference(&url.URL{Path: cfg.Endpoints.CSRFPath}).String(),
	}, nil
}

// FetchCSRFToken performs the idempotent CSRF GET. Callers treat failure as
// non-fatal; the pipeline dispatches without the header when this fails.
func (s *tokenService) FetchCSRFToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.csrfURL, nil)
	if err != nil {
		return "", fmt.Errorf("csrf request: %w", err)
	}

	res, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("csrf fetch: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxTokenBodySize))
	if err != nil {
		return "", fmt.Errorf("csrf fetch read: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("csrf endpoint status %d: %w", res.StatusCode, ErrCSRFUnavailable)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("csrf fetch decode: %w", err)
	}

	token, _ := payload[s.cfg.CSRF.ResponseField].(string)
	if token == "" {
		return "", fmt.Errorf("csrf field %q missing: %w", s.cfg.CSRF.ResponseField, ErrCSRFUnavailable)
	}
	return token, nil
}

// RefreshSession exchanges the refresh token for a new access token. With
// no client-held refresh token the body is an empty object and renewal
// relies on the HttpOnly cookie the server manages; the response then
// carries no access token. Any non-2xx status or transport error, timeouts
// included, is a refresh failure.
func (s *tokenService) RefreshSession(ctx context.Context, refreshToken, csrfToken string) (refreshResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Refresh.Timeout)
	defer cancel()

	reqBody := map[string]string{}
	if refreshToken != "" {
		reqBody[s.cfg.Refresh.RequestField] = refreshToken
	}
	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return refreshResult{}, fmt.Errorf("refresh encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.refreshURL, bytes.NewReader(encoded))
	if err != nil {
		return refreshResult{}, fmt.Errorf("refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if csrfToken != "" {
		req.Header.Set(s.cfg.CSRF.Header, csrfToken)
	}

	res, err := s.http.Do(req)
	if err != nil {
		return refreshResult{}, fmt.Errorf("refresh dispatch: %w (%w)", err, ErrRefreshFailed)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxTokenBodySize))
	if err != nil {
		return refreshResult{}, fmt.Errorf("refresh read: %w (%w)", err, ErrRefreshFailed)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return refreshResult{}, fmt.Errorf("refresh endpoint status %d: %w", res.StatusCode, ErrRefreshFailed)
	}

	var payload map[string]any
	out := refreshResult{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return refreshResult{}, fmt.Errorf("refresh decode: %w (%w)", err, ErrRefreshFailed)
		}
		out.AccessToken, _ = payload[s.cfg.Refresh.AccessField].(string)
		out.RefreshToken, _ = payload[s.cfg.Refresh.RotatedField].(string)
	}

	// No access token in a 2xx response means cookie-only renewal; the
	// server is assumed to have new cookies in place by now. That ordering
	// is an external contract, not something this client can strengthen.
	return out, nil
}
