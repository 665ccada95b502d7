package goAuthClient

import "context"

// ensureCSRF returns the CSRF token for a state-mutating request, fetching
// and caching one when the store is empty. Attachment is best-effort: a
// failed fetch returns "" and the request dispatches without the header,
// letting the ordinary response path judge the outcome.
func (c *Client) ensureCSRF(ctx context.Context, p *pendingRequest) string {
	if token := c.store.CSRFToken(); token != "" {
		return token
	}

	token, err := c.tokens.FetchCSRFToken(ctx)
	if err != nil {
		c.metrics.Inc(MetricCSRFFetchFailure)
		c.emitAudit(ctx, auditEventCSRFFetchFailed, false, p, 0, err)
		return ""
	}

	c.store.SetCSRFToken(token)
	c.metrics.Inc(MetricCSRFFetchSuccess)
	c.emitAudit(ctx, auditEventCSRFFetched, true, p, 0, nil)
	return token
}
