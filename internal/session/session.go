// Package session persists the opaque bearer credential between runs.
// Absent credential means unauthenticated; a rejected call clears it.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type sessionFile struct {
	Token string `json:"token"`
}

// Store reads and writes the session file at a fixed path
type Store struct {
	path string
}

// DefaultStore returns a store backed by ~/.sanos/session.json
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(home, ".sanos", "session.json")), nil
}

// NewStore returns a store backed by an explicit path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the stored token, or "" when no session exists
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", err
	}
	return f.Token, nil
}

// Save persists the token. The file is user-only readable.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(sessionFile{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the stored session. A missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
