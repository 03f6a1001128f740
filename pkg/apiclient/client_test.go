package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer simulates the API: /jobs requires the current access
// token, /refresh mints the next one when given the right refresh
// token.
type testServer struct {
	mu           sync.Mutex
	accessToken  string
	refreshToken string
	refreshCalls int64
}

func (s *testServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&s.refreshCalls, 1)

		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.RefreshToken != s.refreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}

		s.mu.Lock()
		s.accessToken = s.accessToken + "x"
		token := s.accessToken
		s.mu.Unlock()

		json.NewEncoder(w).Encode(map[string]string{"accessToken": token})
	})

	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		valid := "Bearer " + s.accessToken
		s.mu.Unlock()

		if r.Header.Get("Authorization") != valid {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		json.NewEncoder(w).Encode([]map[string]string{{"company": "Acme"}})
	})

	return mux
}

func TestClient_RefreshesOnceAndRetries(t *testing.T) {
	backend := &testServer{accessToken: "good", refreshToken: "refresh-1"}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	store := NewMemoryStore()
	// A stale access token forces the 401 path on the first call.
	store.SetTokens(Tokens{Access: "stale", Refresh: "refresh-1"})
	client := NewClient(srv.URL, store)

	var out []map[string]string
	require.NoError(t, client.DoJSON(context.Background(), http.MethodGet, "/jobs", nil, &out))
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), atomic.LoadInt64(&backend.refreshCalls))

	tokens, ok := store.Tokens()
	require.True(t, ok)
	assert.Equal(t, "goodx", tokens.Access)
}

func TestClient_ConcurrentRequestsShareOneRefresh(t *testing.T) {
	backend := &testServer{accessToken: "good", refreshToken: "refresh-1"}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	store := NewMemoryStore()
	store.SetTokens(Tokens{Access: "stale", Refresh: "refresh-1"})
	client := NewClient(srv.URL, store)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out []map[string]string
			errs[i] = client.DoJSON(context.Background(), http.MethodGet, "/jobs", nil, &out)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&backend.refreshCalls),
		"concurrent 401s must coalesce into one refresh")
}

func TestClient_SessionExpiredClearsStore(t *testing.T) {
	backend := &testServer{accessToken: "good", refreshToken: "refresh-1"}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	store := NewMemoryStore()
	store.SetTokens(Tokens{Access: "stale", Refresh: "wrong-refresh"})
	client := NewClient(srv.URL, store)

	err := client.DoJSON(context.Background(), http.MethodGet, "/jobs", nil, nil)
	require.ErrorIs(t, err, ErrSessionExpired)

	_, ok := store.Tokens()
	assert.False(t, ok, "failed refresh must clear the session")
}

func TestClient_NoSession(t *testing.T) {
	client := NewClient("http://unused", NewMemoryStore())
	err := client.DoJSON(context.Background(), http.MethodGet, "/jobs", nil, nil)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestClient_RetriesAtMostOnce(t *testing.T) {
	// The backend keeps rejecting even fresh tokens; the client must
	// surface the 401 instead of looping.
	var jobCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "new"})
	})
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&jobCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := NewMemoryStore()
	store.SetTokens(Tokens{Access: "a", Refresh: "r"})
	client := NewClient(srv.URL, store)

	err := client.DoJSON(context.Background(), http.MethodGet, "/jobs", nil, nil)
	require.Error(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&jobCalls))
}
