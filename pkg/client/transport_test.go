package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := startServer(t, handler)

	c, err := New(srv.URL, Options{Storage: NewMemoryTokenStorage()})
	require.NoError(t, err)
	return c
}

func seedSession(t *testing.T, c *Client, access, refresh string) {
	t.Helper()
	c.Sessions.commit(Session{
		Identity:     &Identity{ID: "u1", Username: "a", Role: "individual"},
		AccessToken:  access,
		RefreshToken: refresh,
		Status:       StatusAuthenticated,
	})
	c.Sessions.persist(c.Sessions.Current())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}

func TestTransportAttachesCurrentToken(t *testing.T) {
	var got string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/items/stats/", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, ItemStats{TotalItems: 3})
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "t1", "r1")

	stats, err := c.Items.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, "Bearer t1", got)
}

func TestTransportOmitsHeaderWithoutToken(t *testing.T) {
	var got string
	var present bool
	mux := http.NewServeMux()
	mux.HandleFunc("/api/items/categories/", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		writeJSON(w, http.StatusOK, []Category{})
	})

	c := newTestClient(t, mux)

	_, err := c.Items.Categories(context.Background())
	require.NoError(t, err)
	assert.False(t, present, "unauthenticated calls must carry no Authorization header, got %q", got)
}

func TestTransportRefreshesOnceOn401(t *testing.T) {
	var refreshCalls atomic.Int32
	var tokensSeen []string
	var mu sync.Mutex

	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		tokensSeen = append(tokensSeen, r.Header.Get("Authorization"))
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer t2" {
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "token expired")
			return
		}
		writeJSON(w, http.StatusOK, []Order{{ID: "o1"}})
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var body refreshPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "r1", body.Refresh)
		writeJSON(w, http.StatusOK, tokenPairPayload{Access: "t2", Refresh: "r2"})
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "t1", "r1")

	orders, err := c.Orders.Received(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)

	assert.Equal(t, int32(1), refreshCalls.Load())
	assert.Equal(t, []string{"Bearer t1", "Bearer t2"}, tokensSeen)

	session := c.Sessions.Current()
	assert.Equal(t, "t2", session.AccessToken)
	assert.Equal(t, "r2", session.RefreshToken)
	assert.Equal(t, StatusAuthenticated, session.Status)
}

func TestTransportFailsAfterExhaustedRetry(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "token expired")
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		writeJSON(w, http.StatusOK, tokenPairPayload{Access: "t2", Refresh: "r2"})
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "t1", "r1")

	_, err := c.Orders.Received(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))
	// One refresh only; the retried 401 must not trigger a second cycle.
	assert.Equal(t, int32(1), refreshCalls.Load())
}

func TestTransportRefreshFailureClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "token expired")
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "refresh token invalid")
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "t1", "r1")

	_, err := c.Orders.Received(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))

	session := c.Sessions.Current()
	assert.Equal(t, StatusUnauthenticated, session.Status)
	assert.Nil(t, session.Identity)
	assert.Empty(t, session.AccessToken)
	assert.Empty(t, session.RefreshToken)
}

func TestTransportDoesNotRetryNon401(t *testing.T) {
	var refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/items/stats/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "boom")
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "t1", "r1")

	_, err := c.Items.Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, int32(0), refreshCalls.Load())
	// Backend faults never tear down the session.
	assert.Equal(t, StatusAuthenticated, c.Sessions.Current().Status)
}

func TestTransportNetworkErrorDoesNotLogout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	c, err := New(srv.URL, Options{Storage: NewMemoryTokenStorage()})
	require.NoError(t, err)
	seedSession(t, c, "t1", "r1")

	srv.Close()

	_, err = c.Items.Stats(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, StatusAuthenticated, c.Sessions.Current().Status)
}

type blockingCreds struct {
	calls   atomic.Int32
	release chan struct{}
}

func (c *blockingCreds) currentAccessToken() string { return "t1" }

func (c *blockingCreds) refreshAccessToken(ctx context.Context) (string, error) {
	c.calls.Add(1)
	<-c.release
	return "t2", nil
}

func (c *blockingCreds) handleAuthFailure() {}

func TestTransportCoalescesConcurrentRefreshes(t *testing.T) {
	transport, err := NewTransport("http://localhost", nil)
	require.NoError(t, err)

	creds := &blockingCreds{release: make(chan struct{})}
	transport.bindCredentials(creds)

	const callers = 4
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = transport.refreshShared(context.Background())
		}(i)
	}

	// Wait until the first caller holds the in-flight slot, then let
	// the rest queue behind it before it is allowed to finish.
	for creds.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(creds.release)
	wg.Wait()

	assert.Equal(t, int32(1), creds.calls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "t2", results[i])
	}
}
