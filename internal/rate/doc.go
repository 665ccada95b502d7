// Package rate provides the internal refresh storm guard: a minimum-interval
// limiter that keeps a misbehaving server (or an access token shorter-lived
// than its refresh cadence) from turning the client into a refresh loop.
//
// # Window semantics
//
// A single in-process interval gate: a cycle is admitted when at least
// MinInterval has elapsed since the last admitted cycle. Admission reserves
// the slot immediately, so concurrent callers cannot both be admitted.
//
// # What this package must NOT do
//
//   - Implement refresh policy (the client decides what a denial means).
//   - Be imported outside the goAuthClient module.
package rate
