// Package jwt inspects access tokens held by the client without verifying
// them. The client owns no signing keys; it only needs the exp claim to
// decide whether a token is worth refreshing before dispatch. Verification
// remains the server's job.
package jwt
