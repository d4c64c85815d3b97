package client

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Status describes the session lifecycle phase.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticating  Status = "authenticating"
	StatusAuthenticated   Status = "authenticated"
)

// Identity is the account snapshot obtained from the backend. It is
// replaced wholesale on profile update, never mutated in place.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"user_type"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	Organization string    `json:"organization"`
	Bio          string    `json:"bio"`
	Verified     bool      `json:"is_verified"`
	Rating       float64   `json:"rating"`
	TotalDeals   int       `json:"total_deals"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleAdmin is the only role with access to moderation resources.
const RoleAdmin = "admin"

// Session is an immutable snapshot of the current authentication
// state. Status is authenticated only when both the identity and the
// access token are present.
type Session struct {
	Identity     *Identity
	AccessToken  string
	RefreshToken string
	Status       Status
}

// Authenticated reports whether the session carries a valid identity.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil && s.AccessToken != ""
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the account creation payload. Role defaults to
// "individual" on the backend when empty.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"user_type"`
	Phone           string `json:"phone"`
	Location        string `json:"location"`
	Organization    string `json:"organization"`
	Bio             string `json:"bio"`
}

// ProfileUpdate carries partial profile edits; nil fields are left
// unchanged.
type ProfileUpdate struct {
	Email        *string `json:"email"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Phone        *string `json:"phone"`
	Location     *string `json:"location"`
	Organization *string `json:"organization"`
	Bio          *string `json:"bio"`
}

type tokenPairPayload struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type authPayload struct {
	User   Identity         `json:"user"`
	Tokens tokenPairPayload `json:"tokens"`
}

type refreshPayload struct {
	Refresh string `json:"refresh"`
}

// SessionStore is the single source of truth for who is logged in. It
// owns the token pair, mirrors it into durable storage, and notifies
// subscribers synchronously after every committed transition.
type SessionStore struct {
	transport *Transport
	storage   TokenStorage

	// opMu serializes login, register, logout, initialize and profile
	// updates so concurrent attempts cannot interleave commits.
	opMu sync.Mutex

	mu      sync.RWMutex
	session Session
	// generation is bumped whenever the token pair is replaced or
	// cleared. An in-flight refresh that started under an older
	// generation must discard its result instead of committing.
	generation  uint64
	subscribers map[int]func(Session)
	nextSubID   int
}

// NewSessionStore wires a store to its transport and storage. The
// transport reads tokens back through the store on every call.
func NewSessionStore(transport *Transport, storage TokenStorage) *SessionStore {
	s := &SessionStore{
		transport:   transport,
		storage:     storage,
		session:     Session{Status: StatusUnauthenticated},
		subscribers: map[int]func(Session){},
	}
	transport.bindCredentials(s)
	return s
}

// Current returns a snapshot of the session.
func (s *SessionStore) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Subscribe registers fn to run synchronously after every committed
// transition. The returned function removes the subscription.
func (s *SessionStore) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Initialize restores a persisted session at startup. A stored token
// is validated against the identity endpoint; any failure clears all
// state so no stale session survives. Callers must not treat the
// session as authenticated before this returns.
func (s *SessionStore) Initialize(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	persisted, err := s.storage.Load()
	if err != nil {
		s.commit(Session{Status: StatusUnauthenticated})
		return newError(KindInternal, "load persisted session: "+err.Error())
	}
	if persisted.AccessToken == "" {
		s.commit(Session{Status: StatusUnauthenticated})
		return nil
	}

	s.commit(Session{
		Identity:     persisted.Identity,
		AccessToken:  persisted.AccessToken,
		RefreshToken: persisted.RefreshToken,
		Status:       StatusAuthenticating,
	})

	var identity Identity
	if err := s.transport.Do(ctx, http.MethodGet, "/api/auth/current-user/", nil, &identity); err != nil {
		s.clearLocal()
		return err
	}

	s.mu.Lock()
	session := s.session
	session.Identity = &identity
	session.Status = StatusAuthenticated
	s.mu.Unlock()
	s.persist(session)
	s.commit(session)
	return nil
}

// Login authenticates with the backend. On failure the session is
// unchanged and the error carries the backend's message.
func (s *SessionStore) Login(ctx context.Context, creds Credentials) (*Identity, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	var payload authPayload
	if err := s.transport.DoOnce(ctx, http.MethodPost, "/api/auth/login/", creds, &payload); err != nil {
		return nil, err
	}
	return s.commitAuth(payload), nil
}

// Register creates an account and performs an implicit login from the
// response tokens.
func (s *SessionStore) Register(ctx context.Context, reg Registration) (*Identity, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	var payload authPayload
	if err := s.transport.DoOnce(ctx, http.MethodPost, "/api/auth/register/", reg, &payload); err != nil {
		return nil, err
	}
	return s.commitAuth(payload), nil
}

// Logout revokes the refresh token best-effort and unconditionally
// clears local state. It never fails from the caller's perspective.
func (s *SessionStore) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	refresh := s.Current().RefreshToken
	if refresh != "" {
		_ = s.transport.DoOnce(ctx, http.MethodPost, "/api/auth/logout/", refreshPayload{Refresh: refresh}, nil)
	}
	s.clearLocal()
}

// UpdateIdentity applies a partial profile edit. On success the stored
// identity and its persisted copy are replaced; on failure state is
// unchanged.
func (s *SessionStore) UpdateIdentity(ctx context.Context, update ProfileUpdate) (*Identity, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	var identity Identity
	if err := s.transport.Do(ctx, http.MethodPatch, "/api/auth/profile/", update, &identity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	session := s.session
	session.Identity = &identity
	s.mu.Unlock()
	s.persist(session)
	s.commit(session)
	return &identity, nil
}

// ChangePassword rotates the account password. All refresh tokens are
// revoked server-side, so other devices will be logged out.
func (s *SessionStore) ChangePassword(ctx context.Context, current, next string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     next,
	}
	return s.transport.Do(ctx, http.MethodPost, "/api/auth/password/change/", body, nil)
}

func (s *SessionStore) commitAuth(payload authPayload) *Identity {
	identity := payload.User
	s.commitCredentials(Session{
		Identity:     &identity,
		AccessToken:  payload.Tokens.Access,
		RefreshToken: payload.Tokens.Refresh,
		Status:       StatusAuthenticated,
	})
	return &identity
}

// commit replaces the session and notifies subscribers synchronously,
// after the new state is visible to readers.
func (s *SessionStore) commit(session Session) {
	s.mu.Lock()
	s.session = session
	fns := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}

// commitCredentials installs a session whose token pair differs from
// the previous one. The swap, the generation bump and the storage
// mirror happen under one lock so a refresh completing concurrently
// cannot interleave between them.
func (s *SessionStore) commitCredentials(session Session) {
	s.mu.Lock()
	s.generation++
	s.session = session
	if session.AccessToken == "" {
		_ = s.storage.Clear()
	} else {
		_ = s.storage.Save(&PersistedSession{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			Identity:     session.Identity,
		})
	}
	fns := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
}

// subscribersLocked snapshots the subscriber list; callers hold s.mu.
func (s *SessionStore) subscribersLocked() []func(Session) {
	fns := make([]func(Session), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	return fns
}

func (s *SessionStore) persist(session Session) {
	_ = s.storage.Save(&PersistedSession{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Identity:     session.Identity,
	})
}

func (s *SessionStore) clearLocal() {
	s.commitCredentials(Session{Status: StatusUnauthenticated})
}

// currentAccessToken satisfies the transport contract: tokens are
// re-read on every call, never cached across calls.
func (s *SessionStore) currentAccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.AccessToken
}

// refreshAccessToken exchanges the stored refresh token for a new
// pair and commits it. Called only from the transport's coalesced
// refresh path. A logout or re-login while the exchange is in flight
// bumps the generation; the stale result is then discarded so cleared
// storage is never re-populated.
func (s *SessionStore) refreshAccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	refresh := s.session.RefreshToken
	gen := s.generation
	s.mu.RUnlock()
	if refresh == "" {
		return "", newError(KindUnauthenticated, "no refresh token")
	}

	var pair tokenPairPayload
	if err := s.transport.DoOnce(ctx, http.MethodPost, "/api/auth/token/refresh/", refreshPayload{Refresh: refresh}, &pair); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return "", newError(KindUnauthenticated, "session closed during refresh")
	}
	session := s.session
	session.AccessToken = pair.Access
	if pair.Refresh != "" {
		session.RefreshToken = pair.Refresh
	}
	s.session = session
	_ = s.storage.Save(&PersistedSession{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Identity:     session.Identity,
	})
	fns := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(session)
	}
	return pair.Access, nil
}

// handleAuthFailure clears state after an exhausted refresh. Local
// only: the refresh token is already invalid, so no remote revocation
// is attempted. A no-op when the session is already cleared, so a
// refresh discarded after logout does not renotify subscribers.
func (s *SessionStore) handleAuthFailure() {
	cur := s.Current()
	if cur.Status == StatusUnauthenticated && cur.AccessToken == "" && cur.RefreshToken == "" {
		return
	}
	s.clearLocal()
}
