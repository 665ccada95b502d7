// Package goAuthClient provides a client-side session and credential
// orchestration layer for HTTP APIs: bearer and CSRF token attachment,
// single-flight token refresh on 401, transparent replay of blocked
// requests, and a terminal-failure signal when recovery is impossible.
//
// The package is designed for concurrent client workloads: Client methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. When many in-flight requests hit a 401 near-simultaneously
// after token expiry, exactly one refresh call reaches the network; every
// other request parks on the in-progress cycle and is replayed with the
// refreshed credentials.
//
// # Architecture boundaries
//
// goAuthClient is the public surface. It exposes [Client], [Builder],
// [Config], [Request], [Response], and value types (MetricsSnapshot,
// AuditEvent). Credential storage lives in the credential sub-package,
// single-flight coordination in refresh, and the http.RoundTripper adapter
// in middleware. Sub-packages never re-import goAuthClient's pipeline.
//
// # What this package must NOT do
//
//   - Retry a failed refresh: a refresh failure is terminal for the session.
//   - Dispatch a request more than once per recovery marker (stale-bearer
//     drop and post-refresh replay each happen at most once per request).
//   - Block a state-mutating request on CSRF acquisition: the CSRF fetch is
//     best-effort and its failure never prevents dispatch.
//
// # Failure contract
//
// Callers observe exactly two error classes beyond transport errors:
// [ErrSessionTerminated] when the session is unrecoverable (the host
// application must discard client-held session state and present an
// unauthenticated entry surface), and [ErrRetryExhausted] when a request
// keeps failing authentication after a successful refresh. Every other
// non-2xx response passes through untouched for application-level handling.
package goAuthClient
