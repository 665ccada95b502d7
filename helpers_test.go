package goAuthClient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MrEthical07/goAuthClient/credential"
)

// stubAPI is the in-test remote API: an application route plus the two
// token endpoints, with counters for every call class.
type stubAPI struct {
	t testing.TB

	refreshCalls atomic.Int32
	csrfCalls    atomic.Int32
	appCalls     atomic.Int32

	mu              sync.Mutex
	refreshStatus   int
	refreshAccess   string
	refreshRotated  string
	refreshDelay    time.Duration
	csrfStatus      int
	csrfToken       string
	lastRefreshBody map[string]string

	// app handles every non-token route. Defaults to plain 200.
	app http.HandlerFunc
}

func newStubAPI(t testing.TB) *stubAPI {
	t.Helper()
	return &stubAPI{
		t:             t,
		refreshStatus: http.StatusOK,
		refreshAccess: "T2",
		csrfStatus:    http.StatusOK,
		csrfToken:     "C1",
	}
}

func (s *stubAPI) setRefresh(status int, access string) {
	s.mu.Lock()
	s.refreshStatus = status
	s.refreshAccess = access
	s.mu.Unlock()
}

func (s *stubAPI) setCSRF(status int, token string) {
	s.mu.Lock()
	s.csrfStatus = status
	s.csrfToken = token
	s.mu.Unlock()
}

func (s *stubAPI) refreshBody() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefreshBody
}

func (s *stubAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		s.refreshCalls.Add(1)

		body, _ := io.ReadAll(r.Body)
		parsed := map[string]string{}
		_ = json.Unmarshal(body, &parsed)

		s.mu.Lock()
		s.lastRefreshBody = parsed
		status := s.refreshStatus
		access := s.refreshAccess
		rotated := s.refreshRotated
		delay := s.refreshDelay
		s.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		payload := map[string]string{}
		if access != "" {
			payload["access"] = access
		}
		if rotated != "" {
			payload["refresh"] = rotated
		}
		_ = json.NewEncoder(w).Encode(payload)
	})

	mux.HandleFunc("/api/csrf/", func(w http.ResponseWriter, r *http.Request) {
		s.csrfCalls.Add(1)

		s.mu.Lock()
		status := s.csrfStatus
		token := s.csrfToken
		s.mu.Unlock()

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"csrfToken": token})
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.appCalls.Add(1)
		if s.app != nil {
			s.app(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func newStubServer(t testing.TB, api *stubAPI) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)
	return server
}

func sessionWith(access, refreshToken string) credential.Session {
	return credential.Session{AccessToken: access, RefreshToken: refreshToken}
}

func newTestClient(t testing.TB, api *stubAPI, mutate func(*Config)) *Client {
	t.Helper()

	client, _ := newTestClientWithHandler(t, api.handler(), mutate)
	return client
}

func newTestClientWithHandler(t testing.TB, handler http.Handler, mutate func(*Config)) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := defaultConfig()
	cfg.Endpoints.BaseURL = server.URL
	if mutate != nil {
		mutate(&cfg)
	}

	client, err := New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	t.Cleanup(client.Close)

	return client, server
}
