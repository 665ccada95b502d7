// Package middleware exposes an http.RoundTripper adapter so a plain
// *http.Client gains the full orchestration pipeline: credential
// attachment, single-flight refresh on 401, and transparent replay.
//
// # Adapter
//
//   - [NewTransport] — wraps a goAuthClient.Client as a RoundTripper.
//   - [WithSkipAuth] — marks a request's context so no bearer is attached.
//
// Request bodies are buffered up front so a blocked request can be replayed
// verbatim after recovery.
//
// # Architecture boundaries
//
// This package translates net/http semantics into Client.Do calls. It does
// NOT implement recovery policy itself — all decisions belong to the
// pipeline.
//
// # What this package must NOT do
//
//   - Inspect status codes or retry on its own.
//   - Touch credential storage.
//   - Swallow ErrSessionTerminated (it must surface as the RoundTrip error).
package middleware
