package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()

	claims := jwtlib.MapClaims{"sub": "u1"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestExpiresAt(t *testing.T) {
	inspector := NewInspector()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, ok := inspector.ExpiresAt(signedToken(t, exp))
	if !ok {
		t.Fatal("expected exp claim to be readable")
	}
	if !got.Equal(exp) {
		t.Fatalf("expected %s, got %s", exp, got)
	}
}

func TestExpiresAtRejectsNonJWT(t *testing.T) {
	inspector := NewInspector()

	for _, token := range []string{"", "opaque-token", "a.b", "not.a.jwt"} {
		if _, ok := inspector.ExpiresAt(token); ok {
			t.Fatalf("token %q must not report an expiry", token)
		}
	}
}

func TestExpiresAtMissingClaim(t *testing.T) {
	inspector := NewInspector()

	if _, ok := inspector.ExpiresAt(signedToken(t, time.Time{})); ok {
		t.Fatal("token without exp must not report an expiry")
	}
}

func TestExpiresWithin(t *testing.T) {
	inspector := NewInspector()
	now := time.Now()
	inspector.now = func() time.Time { return now }

	cases := []struct {
		name   string
		exp    time.Time
		buffer time.Duration
		want   bool
	}{
		{"far future", now.Add(time.Hour), time.Minute, false},
		{"inside buffer", now.Add(30 * time.Second), time.Minute, true},
		{"already expired", now.Add(-time.Minute), time.Minute, true},
		{"zero buffer not yet expired", now.Add(time.Second), 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := inspector.ExpiresWithin(signedToken(t, tc.exp), tc.buffer); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if inspector.ExpiresWithin("opaque-token", time.Hour) {
		t.Fatal("opaque tokens must never be proactively refreshed")
	}
}
