package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// PersistedSession is the durable subset of a session: the token pair
// plus the last known identity snapshot.
type PersistedSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Identity     *Identity `json:"user,omitempty"`
}

// TokenStorage persists session credentials across process restarts.
// The session store is the only writer; Clear removes all stored state
// in one step.
type TokenStorage interface {
	Load() (*PersistedSession, error)
	Save(session *PersistedSession) error
	Clear() error
}

const sessionFileName = "session.json"

// FileTokenStorage keeps the session in a JSON file under the user
// config directory.
type FileTokenStorage struct {
	dir string
}

// NewFileTokenStorage stores session state under dir. An empty dir
// selects <user config dir>/greenswap.
func NewFileTokenStorage(dir string) (*FileTokenStorage, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "greenswap")
	}
	return &FileTokenStorage{dir: dir}, nil
}

func (s *FileTokenStorage) path() string {
	return filepath.Join(s.dir, sessionFileName)
}

// Load reads the persisted session. A missing file yields an empty
// session, not an error.
func (s *FileTokenStorage) Load() (*PersistedSession, error) {
	raw, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return &PersistedSession{}, nil
		}
		return nil, err
	}
	var session PersistedSession
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt file is treated as no session rather than a fatal
		// startup error.
		return &PersistedSession{}, nil
	}
	return &session, nil
}

// Save writes the session with owner-only permissions.
func (s *FileTokenStorage) Save(session *PersistedSession) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), raw, 0o600)
}

// Clear removes the persisted session.
func (s *FileTokenStorage) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryTokenStorage is an in-process TokenStorage, used in tests and
// for callers that opt out of durable persistence.
type MemoryTokenStorage struct {
	mu      sync.Mutex
	session *PersistedSession
}

// NewMemoryTokenStorage returns an empty in-memory store.
func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{}
}

func (s *MemoryTokenStorage) Load() (*PersistedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return &PersistedSession{}, nil
	}
	copied := *s.session
	return &copied, nil
}

func (s *MemoryTokenStorage) Save(session *PersistedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

func (s *MemoryTokenStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
