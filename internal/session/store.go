package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const stateFileName = "session.json"

// Store persists session state between runs.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// FileStore keeps the session in a JSON file under the state directory.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store under dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, stateFileName)}
}

// Load reads the persisted session. A missing file returns an empty
// session without error.
func (s *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // path built from the configured state dir
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("could not read session state: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("could not parse session state: %w", err)
	}
	return sess, nil
}

// Save writes the session atomically (temp file + rename) with owner-only
// permissions.
func (s *FileStore) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("could not create state directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal session state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("could not write session state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("could not replace session state: %w", err)
	}
	return nil
}

// Clear removes the state file. A file that is already gone is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("could not remove session state: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	session Session
	saved   bool
}

func (s *MemoryStore) Load() (Session, error) {
	return s.session, nil
}

func (s *MemoryStore) Save(sess Session) error {
	s.session = sess
	s.saved = true
	return nil
}

func (s *MemoryStore) Clear() error {
	s.session = Session{}
	return nil
}
