// package credentials maps library identifiers to their hashed-password
// secrets. The relational store never sees these values.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/polyphonic/polyphonic/internal/shared"
)

// Store resolves and persists per-library secrets. The backing mechanism is
// opaque to callers; the sync engine only ever calls Secret before a pass.
type Store interface {
	// Secret returns the stored secret for a library, or
	// shared.ErrCredentialNotFound when none is registered.
	Secret(libraryID string) (string, error)

	// SetSecret stores or replaces a library's secret.
	SetSecret(libraryID, secret string) error
}

// FileStore keeps secrets in a single TOML file with 0600 permissions.
// Stands in for an OS-level secret store on platforms without one.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore backed by the file at path. The file is
// created lazily on the first SetSecret.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type secretsFile struct {
	Secrets map[string]string `toml:"secrets"`
}

func (s *FileStore) load() (*secretsFile, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &secretsFile{Secrets: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCredentialStore, err)
	}

	var f secretsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCredentialStore, err)
	}
	if f.Secrets == nil {
		f.Secrets = map[string]string{}
	}
	return &f, nil
}

// Secret implements Store.
func (s *FileStore) Secret(libraryID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return "", err
	}

	secret, ok := f.Secrets[libraryID]
	if !ok {
		return "", fmt.Errorf("%w: library %s", shared.ErrCredentialNotFound, libraryID)
	}
	return secret, nil
}

// SetSecret implements Store.
func (s *FileStore) SetSecret(libraryID, secret string) error {
	if libraryID == "" {
		return fmt.Errorf("%w: library id is required", shared.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	f.Secrets[libraryID] = secret

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrCredentialStore, err)
		}
	}

	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCredentialStore, err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCredentialStore, err)
	}
	return nil
}
