// Package refresh implements the single-flight coordinator that serializes
// session refresh attempts.
//
// # State machine
//
// A [Coordinator] is either idle or has exactly one refresh cycle in
// progress. The first caller to arrive while idle becomes the leader and
// runs the refresh function; every caller arriving during the cycle parks
// as a waiter. When the cycle settles, waiters are resumed exactly once, in
// FIFO arrival order, all with the same outcome.
//
// # Architecture boundaries
//
// This package owns coordination only. The refresh function injected at
// construction performs the network exchange and every credential-store
// mutation, and must have fully settled the session before it returns —
// waiters observing the resumed state never see a half-updated session.
//
// # What this package must NOT do
//
//   - Retry a failed refresh (a settled failure is final for the cycle).
//   - Perform I/O of its own or touch credential storage.
//   - Import goAuthClient or credential (no upward imports).
package refresh
