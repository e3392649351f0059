package session

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateStore persists the browser session state between runs. The stored
// bytes are opaque at this layer; only the browser session reads them. The
// file carries live credentials, so it is written with owner-only
// permissions.
type StateStore struct {
	path string
}

// NewStateStore creates a store backed by the given file path.
func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Path returns the backing file path.
func (s *StateStore) Path() string {
	return s.path
}

// Load returns the stored state, or (nil, nil) when no state has been saved
// yet.
func (s *StateStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session state %s: %w", s.path, err)
	}
	return data, nil
}

// Save writes the state with 0600 permissions, creating parent directories
// as needed.
func (s *StateStore) Save(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session state directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session state %s: %w", s.path, err)
	}
	return nil
}
