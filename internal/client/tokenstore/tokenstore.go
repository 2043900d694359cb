// Package tokenstore persists the single bearer token the client holds.
package tokenstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Key is the fixed storage key of the bearer token.
const Key = "jwt_token"

// Store reads and writes the bearer token. Presence of a token is the only
// authentication signal the client trusts.
type Store interface {
	// Read returns the stored token; ok is false when none is stored.
	Read() (token string, ok bool, err error)
	// Write replaces the stored token.
	Write(token string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// FileStore keeps the token as a JSON file named after Key inside Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir.
func NewFileStore(dir string) *FileStore { return &FileStore{Dir: dir} }

// Path is the token file location.
func (s *FileStore) Path() string { return filepath.Join(s.Dir, Key+".json") }

// Read loads the token. A missing or empty file means no token.
func (s *FileStore) Read() (string, bool, error) {
	b, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", false, err
	}
	tok := strings.TrimSpace(tf.AccessToken)
	if tok == "" {
		return "", false, nil
	}
	return tok, true, nil
}

// Write stores the token with owner-only permissions.
func (s *FileStore) Write(token string) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: token, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.Path())
}

// Clear removes the token file.
func (s *FileStore) Clear() error {
	err := os.Remove(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns a store pre-filled with token (may be empty).
func NewMemoryStore(token string) *MemoryStore { return &MemoryStore{token: token} }

func (s *MemoryStore) Read() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != "", nil
}

func (s *MemoryStore) Write(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
