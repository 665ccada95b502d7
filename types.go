package goAuthClient

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/MrEthical07/goAuthClient/refresh"
)

// Request defines a public type used by goAuthClient APIs.
//
// Request describes an outgoing call by value (method, URL, headers, body)
// so the pipeline can replay it verbatim during recovery. The URL may be
// absolute or relative to the configured base URL.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	// ContentType is applied when the request carries a body. When empty and
	// the body is not multipart, the pipeline defaults it to application/json.
	ContentType string

	// Multipart marks a body that carries its own boundary-bearing
	// Content-Type header; the pipeline never sets one on its behalf.
	Multipart bool

	// SkipAuth suppresses bearer attachment for this request.
	SkipAuth bool
}

// Response defines a public type used by goAuthClient APIs.
//
// Response instances are immutable snapshots of a settled HTTP exchange;
// the body has been fully read so the caller never manages a stream.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the response status is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// pendingRequest is the arena-style recovery record for one dispatched
// request. The retry markers live here, never on the shared Request value,
// so two recovery paths cannot alias each other's state.
type pendingRequest struct {
	id  string
	req *Request

	// droppedBearer records that the stale-bearer retry was consumed.
	droppedBearer bool
	// refreshed records that the post-refresh retry was consumed.
	refreshed bool
	// proactive holds the settled outcome of a pre-dispatch refresh cycle,
	// reused by the 401 path so one dispatch opens at most one cycle.
	proactive *refresh.Outcome
}

func newPendingRequest(req *Request) *pendingRequest {
	return &pendingRequest{
		id:  uuid.NewString(),
		req: req,
	}
}

// isMutating reports whether the method requires a CSRF token.
func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
