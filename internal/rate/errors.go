package rate

import "errors"

// ErrRateLimited is an exported constant or variable used by the session orchestration client.
var ErrRateLimited = errors.New("rate limited")
