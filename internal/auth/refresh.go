package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrRefreshTokenInvalid indicates an unknown, revoked or expired refresh token.
var ErrRefreshTokenInvalid = errors.New("refresh token invalid or expired")

// RefreshTokenStore persists issued refresh tokens.
type RefreshTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// Consume deletes the token and returns the user it belonged to.
	// A second Consume of the same token must fail with ErrRefreshTokenInvalid.
	Consume(ctx context.Context, token string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID string) error
}

// RefreshManager issues and rotates opaque refresh tokens.
type RefreshManager struct {
	store RefreshTokenStore
	ttl   time.Duration
}

// NewRefreshManager builds the manager.
func NewRefreshManager(store RefreshTokenStore, ttl time.Duration) *RefreshManager {
	if ttl <= 0 {
		ttl = 24 * 7 * time.Hour
	}
	return &RefreshManager{store: store, ttl: ttl}
}

// Issue creates and persists a new refresh token for the user.
func (m *RefreshManager) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := m.store.Save(ctx, token, userID, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Rotate consumes the presented token and issues a replacement for the same
// user. The old token is invalidated before the new one exists, so a
// concurrent rotation of the same token loses.
func (m *RefreshManager) Rotate(ctx context.Context, token string) (userID, newToken string, err error) {
	userID, err = m.store.Consume(ctx, token)
	if err != nil {
		return "", "", err
	}
	newToken, err = m.Issue(ctx, userID)
	if err != nil {
		return "", "", err
	}
	return userID, newToken, nil
}

// Revoke invalidates a single refresh token. Unknown tokens are not an error.
func (m *RefreshManager) Revoke(ctx context.Context, token string) error {
	return m.store.Delete(ctx, token)
}

// RevokeAll invalidates every refresh token issued to the user.
func (m *RefreshManager) RevokeAll(ctx context.Context, userID string) error {
	return m.store.DeleteAllForUser(ctx, userID)
}
