package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Inspector extracts expiry information from unverified JWTs. Opaque
// (non-JWT) tokens report no expiry, which callers must treat as "do not
// refresh proactively".
type Inspector struct {
	parser *jwt.Parser
	now    func() time.Time
}

// NewInspector describes the newinspector operation and its observable behavior.
//
// NewInspector does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewInspector() *Inspector {
	return &Inspector{
		parser: jwt.NewParser(),
		now:    time.Now,
	}
}

// ExpiresAt returns the token's exp claim. ok is false for opaque tokens,
// malformed JWTs, and JWTs without an exp claim.
func (i *Inspector) ExpiresAt(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ExpiresWithin reports whether the token is a JWT expiring within buffer
// (or already expired). Opaque tokens always report false.
func (i *Inspector) ExpiresWithin(token string, buffer time.Duration) bool {
	exp, ok := i.ExpiresAt(token)
	if !ok {
		return false
	}
	return exp.Sub(i.now()) <= buffer
}
