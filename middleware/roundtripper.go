package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	goAuthClient "github.com/MrEthical07/goAuthClient"
)

type skipAuthContextKey struct{}

// WithSkipAuth marks the request context so the pipeline attaches no bearer
// credential to this request.
func WithSkipAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipAuthContextKey{}, true)
}

func skipAuthFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	skip, _ := ctx.Value(skipAuthContextKey{}).(bool)
	return skip
}

// Transport adapts a [goAuthClient.Client] to the http.RoundTripper
// interface.
type Transport struct {
	client *goAuthClient.Client
}

// NewTransport describes the newtransport operation and its observable behavior.
//
// NewTransport does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewTransport(client *goAuthClient.Client) *Transport {
	return &Transport{client: client}
}

// RoundTrip dispatches through the orchestration pipeline. Responses the
// pipeline hands back — including post-recovery 401s — are returned as
// ordinary HTTP responses; only transport errors and terminal session
// failure surface as RoundTrip errors.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t == nil || t.client == nil {
		return nil, errors.New("middleware: transport not initialized")
	}

	var body []byte
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("middleware: buffer request body: %w", err)
		}
		body = data
	}

	contentType := req.Header.Get("Content-Type")

	out := &goAuthClient.Request{
		Method:      req.Method,
		URL:         req.URL.String(),
		Header:      req.Header.Clone(),
		Body:        body,
		ContentType: contentType,
		Multipart:   strings.HasPrefix(contentType, "multipart/"),
		SkipAuth:    skipAuthFromContext(req.Context()),
	}

	resp, err := t.client.Do(req.Context(), out)
	if err != nil && resp == nil {
		return nil, err
	}

	return &http.Response{
		Status:        http.StatusText(resp.StatusCode),
		StatusCode:    resp.StatusCode,
		Proto:         req.Proto,
		ProtoMajor:    req.ProtoMajor,
		ProtoMinor:    req.ProtoMinor,
		Header:        resp.Header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}
