package goAuthClient

import "errors"

var (
	// ErrClientNotReady is an exported constant or variable used by the session orchestration client.
	ErrClientNotReady = errors.New("client not ready")
	// ErrInvalidRequest is an exported constant or variable used by the session orchestration client.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSessionTerminated is returned when refresh failed and the session was cleared.
	// The hosting application must discard session state and re-authenticate the user.
	ErrSessionTerminated = errors.New("session terminated")
	// ErrRetryExhausted is returned when a request still fails authentication after
	// every recovery attempt it is entitled to.
	ErrRetryExhausted = errors.New("authentication retries exhausted")
	// ErrRefreshFailed is an exported constant or variable used by the session orchestration client.
	ErrRefreshFailed = errors.New("session refresh failed")
	// ErrRefreshRateLimited is an exported constant or variable used by the session orchestration client.
	ErrRefreshRateLimited = errors.New("session refresh rate limited")
	// ErrCSRFUnavailable is an exported constant or variable used by the session orchestration client.
	ErrCSRFUnavailable = errors.New("csrf token unavailable")
)
