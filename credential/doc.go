// Package credential holds the process-wide authentication state: the
// access token, refresh token, and CSRF token shared by every in-flight
// request.
//
// Stores are pure storage. Reads never block on the network, clears never
// fail, and no component outside the orchestration layer (request pipeline
// and refresh coordinator) may mutate one. The Redis-backed store keeps the
// same contract by serving every read from an in-process cache and treating
// persistence as write-through best-effort.
package credential
