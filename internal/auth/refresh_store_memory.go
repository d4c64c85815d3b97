package auth

import (
	"context"
	"sync"
	"time"
)

type memoryRefreshEntry struct {
	userID    string
	expiresAt time.Time
}

// memoryRefreshTokenStore is an in-process store used by tests and
// single-node development setups without Redis.
type memoryRefreshTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryRefreshEntry
}

// NewMemoryRefreshTokenStore returns an in-memory implementation.
func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{tokens: make(map[string]memoryRefreshEntry)}
}

func (s *memoryRefreshTokenStore) Save(_ context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryRefreshEntry{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *memoryRefreshTokenStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.tokens, token)
		return "", ErrRefreshTokenInvalid
	}
	delete(s.tokens, token)
	return entry.userID, nil
}

func (s *memoryRefreshTokenStore) Lookup(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.tokens[token]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", ErrRefreshTokenInvalid
	}
	return entry.userID, nil
}

func (s *memoryRefreshTokenStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *memoryRefreshTokenStore) DeleteAllForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, entry := range s.tokens {
		if entry.userID == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}
