package goAuthClient

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goAuthClient/internal/rate"
)

// runRefresh is the coordinator's refresh function: it performs exactly one
// token exchange and applies every session mutation before returning, so
// waiters never observe a half-updated session. It never retries; a failed
// exchange is final for the cycle.
func (c *Client) runRefresh(ctx context.Context) (string, error) {
	if c.refreshGuard != nil {
		if err := c.refreshGuard.Allow(); err != nil {
			c.metrics.Inc(MetricRefreshRateLimited)
			return "", fmt.Errorf("%w: %w", ErrRefreshRateLimited, rate.ErrRateLimited)
		}
	}

	c.metrics.Inc(MetricRefreshTriggered)
	c.emitAudit(ctx, auditEventRefreshStarted, true, nil, 0, nil)

	result, err := c.tokens.RefreshSession(ctx, c.store.RefreshToken(), c.store.CSRFToken())
	if err != nil {
		c.metrics.Inc(MetricRefreshFailure)
		c.emitAudit(ctx, auditEventRefreshFailed, false, nil, 0, err)
		return "", err
	}

	if result.AccessToken != "" {
		c.store.SetAccessToken(result.AccessToken)
	}
	if result.RefreshToken != "" {
		c.store.SetRefreshToken(result.RefreshToken)
	}

	// The cached CSRF token paired with the old session; re-fetch eagerly so
	// the first mutating replay carries a matching one. Best-effort: an empty
	// cache just re-fetches on the next mutating request.
	c.store.ClearCSRFToken()
	if token, csrfErr := c.tokens.FetchCSRFToken(ctx); csrfErr == nil {
		c.store.SetCSRFToken(token)
		c.metrics.Inc(MetricCSRFFetchSuccess)
	} else {
		c.metrics.Inc(MetricCSRFFetchFailure)
		c.emitAudit(ctx, auditEventCSRFFetchFailed, false, nil, 0, csrfErr)
	}

	c.metrics.Inc(MetricRefreshSuccess)
	c.emitAudit(ctx, auditEventRefreshSucceeded, true, nil, 0, nil)
	return c.store.AccessToken(), nil
}

// terminate clears the whole session and latches the terminal state. Safe
// to call from every waiter of a failed cycle; the operations are
// idempotent.
func (c *Client) terminate(ctx context.Context, p *pendingRequest, cause error) {
	c.store.Clear()
	c.terminated.Store(true)
	c.metrics.Inc(MetricSessionTerminated)
	c.emitAudit(ctx, auditEventSessionTerminated, false, p, 0, cause)
}
