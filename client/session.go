package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Session is the (match, player) pair used to rejoin a match after the
// client restarts or the connection drops.
type Session struct {
	MatchID   string `yaml:"match_id"`
	PlayerUID string `yaml:"player_uid"`
}

// SessionStore persists the current session.
type SessionStore interface {
	// Load returns the stored session and whether one exists.
	Load() (Session, bool, error)
	Save(s Session) error
	Clear() error
}

// MemorySessionStore keeps the session for the life of the process.
type MemorySessionStore struct {
	mu      sync.Mutex
	session Session
	ok      bool
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Load() (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.ok, nil
}

func (s *MemorySessionStore) Save(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session, s.ok = session, true
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session, s.ok = Session{}, false
	return nil
}

// FileSessionStore keeps the session in a YAML file.
type FileSessionStore struct {
	path string
}

func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

func (s *FileSessionStore) Load() (Session, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("read session: %w", err)
	}

	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return Session{}, false, fmt.Errorf("parse session %s: %w", s.path, err)
	}
	if session.MatchID == "" || session.PlayerUID == "" {
		return session, false, nil
	}
	return session, true, nil
}

func (s *FileSessionStore) Save(session Session) error {
	data, err := yaml.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear forgets the match but keeps the player id so a restarted client
// keeps its identity.
func (s *FileSessionStore) Clear() error {
	session, _, err := s.Load()
	if err != nil {
		return os.Remove(s.path)
	}
	if session.PlayerUID == "" {
		err := os.Remove(s.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return s.Save(Session{PlayerUID: session.PlayerUID})
}

// ResolveIdentity picks the local player id: the configured one, else the
// one remembered by the store, else a fresh uuid.
func ResolveIdentity(configured string, store SessionStore) string {
	if configured != "" {
		return configured
	}
	if store != nil {
		if session, _, err := store.Load(); err == nil && session.PlayerUID != "" {
			return session.PlayerUID
		}
	}
	return uuid.NewString()
}
