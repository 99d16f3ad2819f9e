package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/legyenez/lgz/internal/shared"
)

// TokenStore persists the bearer token across process restarts.
type TokenStore interface {
	Load() (string, error) // returns shared.ErrNoToken when nothing is stored
	Save(token string) error
	Clear() error
}

// FileStore keeps the token in a 0600 file, by default under ~/.lgz.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the stored token.
func (f *FileStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", shared.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", shared.ErrNoToken
	}
	return token, nil
}

// Save writes the token, creating the parent directory as needed.
func (f *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear removes the stored token. Missing file is not an error.
func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// MemoryStore is an in-process TokenStore for tests and ephemeral sessions.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", shared.ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
