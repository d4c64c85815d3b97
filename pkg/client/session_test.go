package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authBackend(t *testing.T) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds.Username != "a" || creds.Password != "b" {
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid credentials")
			return
		}
		writeJSON(w, http.StatusOK, authPayload{
			User:   Identity{ID: "1", Username: "a", Role: "individual"},
			Tokens: tokenPairPayload{Access: "t1", Refresh: "r1"},
		})
	})
	mux.HandleFunc("/api/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		var reg Registration
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reg))
		if reg.Password != reg.PasswordConfirm {
			writeAPIError(w, http.StatusBadRequest, "VALIDATION_FAILED", "passwords do not match")
			return
		}
		writeJSON(w, http.StatusCreated, authPayload{
			User:   Identity{ID: "2", Username: reg.Username, Role: "workshop"},
			Tokens: tokenPairPayload{Access: "t2", Refresh: "r2"},
		})
	})
	return mux
}

func TestLoginPopulatesSession(t *testing.T) {
	c := newTestClient(t, authBackend(t))

	identity, err := c.Sessions.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)
	assert.Equal(t, "1", identity.ID)
	assert.Equal(t, "individual", identity.Role)

	session := c.Sessions.Current()
	assert.Equal(t, StatusAuthenticated, session.Status)
	assert.Equal(t, "t1", session.AccessToken)
	assert.Equal(t, "r1", session.RefreshToken)
	require.NotNil(t, session.Identity)
	assert.Equal(t, "a", session.Identity.Username)
}

func TestLoginPersistsTokens(t *testing.T) {
	storage := NewMemoryTokenStorage()
	srv := startServer(t, authBackend(t))
	c, err := New(srv.URL, Options{Storage: storage})
	require.NoError(t, err)

	_, err = c.Sessions.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	persisted, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "t1", persisted.AccessToken)
	assert.Equal(t, "r1", persisted.RefreshToken)
	require.NotNil(t, persisted.Identity)
	assert.Equal(t, "1", persisted.Identity.ID)
}

func TestLoginFailureLeavesSessionUnchanged(t *testing.T) {
	c := newTestClient(t, authBackend(t))

	_, err := c.Sessions.Login(context.Background(), Credentials{Username: "a", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))

	session := c.Sessions.Current()
	assert.Equal(t, StatusUnauthenticated, session.Status)
	assert.Nil(t, session.Identity)
	assert.Empty(t, session.AccessToken)
}

func TestRegisterPerformsImplicitLogin(t *testing.T) {
	c := newTestClient(t, authBackend(t))

	identity, err := c.Sessions.Register(context.Background(), Registration{
		Username:        "b",
		Email:           "b@example.com",
		Password:        "secret",
		PasswordConfirm: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "2", identity.ID)

	session := c.Sessions.Current()
	assert.Equal(t, StatusAuthenticated, session.Status)
	assert.Equal(t, "t2", session.AccessToken)
}

func TestRegisterValidationSurfacesBackendMessage(t *testing.T) {
	c := newTestClient(t, authBackend(t))

	_, err := c.Sessions.Register(context.Background(), Registration{
		Username:        "b",
		Password:        "secret",
		PasswordConfirm: "different",
	})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var sdkErr *Error
	require.ErrorAs(t, err, &sdkErr)
	assert.Equal(t, "passwords do not match", sdkErr.Message)
}

func TestLogoutClearsStateEvenWhenRemoteFails(t *testing.T) {
	mux := authBackend(t)
	mux.HandleFunc("/api/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "boom")
	})

	storage := NewMemoryTokenStorage()
	srv := startServer(t, mux)
	c, err := New(srv.URL, Options{Storage: storage})
	require.NoError(t, err)

	_, err = c.Sessions.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	c.Sessions.Logout(context.Background())

	session := c.Sessions.Current()
	assert.Equal(t, StatusUnauthenticated, session.Status)
	assert.Nil(t, session.Identity)
	assert.Empty(t, session.AccessToken)
	assert.Empty(t, session.RefreshToken)

	persisted, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, persisted.AccessToken)
	assert.Empty(t, persisted.RefreshToken)
}

func TestInitializeWithoutTokenIsUnauthenticated(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())

	require.NoError(t, c.Sessions.Initialize(context.Background()))
	assert.Equal(t, StatusUnauthenticated, c.Sessions.Current().Status)
}

func TestInitializeRestoresPersistedSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/current-user/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid token")
			return
		}
		writeJSON(w, http.StatusOK, Identity{ID: "1", Username: "a", Role: "admin"})
	})

	storage := NewMemoryTokenStorage()
	require.NoError(t, storage.Save(&PersistedSession{AccessToken: "t1", RefreshToken: "r1"}))

	srv := startServer(t, mux)
	c, err := New(srv.URL, Options{Storage: storage})
	require.NoError(t, err)

	require.NoError(t, c.Sessions.Initialize(context.Background()))

	session := c.Sessions.Current()
	assert.Equal(t, StatusAuthenticated, session.Status)
	require.NotNil(t, session.Identity)
	assert.Equal(t, "admin", session.Identity.Role)
}

func TestInitializeRejectedTokenClearsState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/current-user/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid token")
	})
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "refresh token invalid")
	})

	storage := NewMemoryTokenStorage()
	require.NoError(t, storage.Save(&PersistedSession{AccessToken: "stale", RefreshToken: "stale"}))

	srv := startServer(t, mux)
	c, err := New(srv.URL, Options{Storage: storage})
	require.NoError(t, err)

	err = c.Sessions.Initialize(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusUnauthenticated, c.Sessions.Current().Status)

	persisted, loadErr := storage.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, persisted.AccessToken)
}

func TestUpdateIdentityReplacesSnapshot(t *testing.T) {
	mux := authBackend(t)
	mux.HandleFunc("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		var update ProfileUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		writeJSON(w, http.StatusOK, Identity{ID: "1", Username: "a", Role: "individual", Location: *update.Location})
	})

	c := newTestClient(t, mux)
	_, err := c.Sessions.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	location := "Cairo"
	identity, err := c.Sessions.UpdateIdentity(context.Background(), ProfileUpdate{Location: &location})
	require.NoError(t, err)
	assert.Equal(t, "Cairo", identity.Location)
	assert.Equal(t, "Cairo", c.Sessions.Current().Identity.Location)
}

func TestUpdateIdentityFailureLeavesStateUnchanged(t *testing.T) {
	mux := authBackend(t)
	mux.HandleFunc("/api/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusBadRequest, "VALIDATION_FAILED", "email already in use")
	})

	c := newTestClient(t, mux)
	_, err := c.Sessions.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	email := "taken@example.com"
	_, err = c.Sessions.UpdateIdentity(context.Background(), ProfileUpdate{Email: &email})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "a", c.Sessions.Current().Identity.Username)
}

func TestSubscribersNotifiedSynchronously(t *testing.T) {
	c := newTestClient(t, authBackend(t))

	var observed []Status
	unsubscribe := c.Sessions.Subscribe(func(s Session) {
		observed = append(observed, s.Status)
	})

	_, err := c.Sessions.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)
	require.NotEmpty(t, observed)
	assert.Equal(t, StatusAuthenticated, observed[len(observed)-1])

	unsubscribe()
	c.Sessions.Logout(context.Background())
	assert.Equal(t, StatusAuthenticated, observed[len(observed)-1], "no notification after unsubscribe")
}

func TestSubscriberSeesCommittedState(t *testing.T) {
	c := newTestClient(t, authBackend(t))

	var statusDuringNotify Status
	c.Sessions.Subscribe(func(s Session) {
		// The store must expose the new state before notifying.
		statusDuringNotify = c.Sessions.Current().Status
	})

	_, err := c.Sessions.Login(context.Background(), Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)
	assert.Equal(t, StatusAuthenticated, statusDuringNotify)
}

func TestLogoutDuringRefreshLeavesNothingBehind(t *testing.T) {
	refreshStarted := make(chan struct{})
	releaseRefresh := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/items/my-items/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "token expired")
	})
	mux.HandleFunc("/api/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusResetContent)
	})
	var once sync.Once
	mux.HandleFunc("/api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(refreshStarted) })
		<-releaseRefresh
		writeJSON(w, http.StatusOK, tokenPairPayload{Access: "t2", Refresh: "r2"})
	})

	c := newTestClient(t, mux)
	seedSession(t, c, "t1", "r1")

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Items.MyItems(context.Background(), 0, 0)
		errCh <- err
	}()

	<-refreshStarted
	c.Sessions.Logout(context.Background())
	close(releaseRefresh)

	err := <-errCh
	require.Error(t, err)
	assert.Equal(t, KindUnauthenticated, KindOf(err))

	// The refresh that straddled the logout must not resurrect the
	// session in memory or in durable storage.
	got := c.Sessions.Current()
	assert.Equal(t, StatusUnauthenticated, got.Status)
	assert.Empty(t, got.AccessToken)
	assert.Empty(t, got.RefreshToken)

	persisted, loadErr := c.Sessions.storage.Load()
	require.NoError(t, loadErr)
	assert.Empty(t, persisted.AccessToken)
	assert.Empty(t, persisted.RefreshToken)
}
