package credential

// Session is an atomic snapshot of the three credential fields. An empty
// field means the credential is absent (cookie-only deployments hold no
// client-side tokens at all).
type Session struct {
	AccessToken  string
	RefreshToken string
	CSRFToken    string
}

// Empty reports whether no credential field is populated.
func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == "" && s.CSRFToken == ""
}

// Store is the contract between the orchestration layer and credential
// storage. Implementations must make every read non-blocking, every clear
// infallible, and every mutation atomic per field: a reader never observes
// a half-written value, and Replace/Clear are atomic for the whole session.
type Store interface {
	Snapshot() Session
	Replace(s Session)
	Clear()

	AccessToken() string
	SetAccessToken(token string)
	ClearAccessToken()

	RefreshToken() string
	SetRefreshToken(token string)
	ClearRefreshToken()

	CSRFToken() string
	SetCSRFToken(token string)
	ClearCSRFToken()
}
