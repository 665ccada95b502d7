package refresh

import (
	"context"
	"sync"
)

// State identifies the coordinator's position in the refresh cycle.
type State int32

const (
	// StateIdle means no refresh cycle is in progress.
	StateIdle State = iota
	// StateInProgress means one refresh cycle is in flight and new callers
	// park as waiters.
	StateInProgress
)

// Outcome is the settled result of one refresh cycle, shared by the leader
// and every waiter parked on it.
type Outcome struct {
	// AccessToken is the credential in effect after the cycle. Empty on a
	// cookie-only renewal, where the server rotated session cookies instead.
	AccessToken string
	// Err is non-nil when the cycle failed; the session is unrecoverable
	// from the coordinator's point of view.
	Err error
}

// RunFunc performs one refresh exchange and applies every session mutation
// before returning. It is invoked at most once per cycle.
type RunFunc func(ctx context.Context) (accessToken string, err error)

// Coordinator serializes refresh attempts so no two refresh calls are ever
// in flight concurrently.
type Coordinator struct {
	mu      sync.Mutex
	state   State
	waiters []chan Outcome
	run     RunFunc
}

// NewCoordinator describes the newcoordinator operation and its observable behavior.
//
// NewCoordinator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCoordinator(run RunFunc) *Coordinator {
	return &Coordinator{run: run}
}

// State reports the current cycle state. Intended for introspection and
// tests; the value may be stale by the time the caller acts on it.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Waiting reports how many callers are parked on the in-progress cycle.
func (c *Coordinator) Waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// Await joins the current refresh cycle, starting one if none is in
// progress. Waiters park until the cycle settles and every waiter receives
// the same outcome. The second return value reports whether the caller
// observed a settled cycle: a waiter whose ctx is cancelled stops observing
// and returns (Outcome{Err: ctx.Err()}, false), but the cycle itself still
// settles for everyone else.
func (c *Coordinator) Await(ctx context.Context) (Outcome, bool) {
	c.mu.Lock()
	if c.state == StateInProgress {
		ch := make(chan Outcome, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case out := <-ch:
			return out, true
		case <-ctx.Done():
			return Outcome{Err: ctx.Err()}, false
		}
	}
	c.state = StateInProgress
	c.mu.Unlock()

	// The refresh function is bounded by its own timeout, never by the
	// triggering caller's lifetime: one caller abandoning its request must
	// not fail the cycle for everyone parked on it. Context values (request
	// ID and the like) still flow through.
	token, err := c.run(context.WithoutCancel(ctx))
	out := Outcome{AccessToken: token, Err: err}

	// The session is fully settled by the time run returns; only now may
	// waiters resume.
	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.state = StateIdle
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- out
	}
	return out, true
}
