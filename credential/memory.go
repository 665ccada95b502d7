package credential

import "sync"

// MemoryStore is the in-process [Store]. It is the default when no
// persistence backend is configured and the cache layer of [RedisStore].
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// NewMemoryStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Snapshot returns an atomic copy of all three fields.
func (m *MemoryStore) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Replace swaps the whole session in one step.
func (m *MemoryStore) Replace(s Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

// Clear empties all three fields in one step.
func (m *MemoryStore) Clear() {
	m.Replace(Session{})
}

// AccessToken describes the accesstoken operation and its observable behavior.
func (m *MemoryStore) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AccessToken
}

// SetAccessToken describes the setaccesstoken operation and its observable behavior.
func (m *MemoryStore) SetAccessToken(token string) {
	m.mu.Lock()
	m.session.AccessToken = token
	m.mu.Unlock()
}

// ClearAccessToken describes the clearaccesstoken operation and its observable behavior.
func (m *MemoryStore) ClearAccessToken() {
	m.SetAccessToken("")
}

// RefreshToken describes the refreshtoken operation and its observable behavior.
func (m *MemoryStore) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.RefreshToken
}

// SetRefreshToken describes the setrefreshtoken operation and its observable behavior.
func (m *MemoryStore) SetRefreshToken(token string) {
	m.mu.Lock()
	m.session.RefreshToken = token
	m.mu.Unlock()
}

// ClearRefreshToken describes the clearrefreshtoken operation and its observable behavior.
func (m *MemoryStore) ClearRefreshToken() {
	m.SetRefreshToken("")
}

// CSRFToken describes the csrftoken operation and its observable behavior.
func (m *MemoryStore) CSRFToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.CSRFToken
}

// SetCSRFToken describes the setcsrftoken operation and its observable behavior.
func (m *MemoryStore) SetCSRFToken(token string) {
	m.mu.Lock()
	m.session.CSRFToken = token
	m.mu.Unlock()
}

// ClearCSRFToken describes the clearcsrftoken operation and its observable behavior.
func (m *MemoryStore) ClearCSRFToken() {
	m.SetCSRFToken("")
}
