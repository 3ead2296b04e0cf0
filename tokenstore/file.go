// ABOUTME: File-backed token store for the terminal browser
// ABOUTME: Persists the session token and expiry as YAML with owner-only permissions

package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/storeops/catalog-console/models"
)

// FileStore keeps the session in a YAML file
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path. The file is created on Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Load(context.Context) (models.Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Session{}, ErrNoSession
		}
		return models.Session{}, fmt.Errorf("failed to read token file: %w", err)
	}

	var s models.Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return models.Session{}, fmt.Errorf("failed to parse token file: %w", err)
	}
	if s.Empty() {
		return models.Session{}, ErrNoSession
	}
	return s, nil
}

func (f *FileStore) Save(_ context.Context, s models.Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
