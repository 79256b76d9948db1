package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps artifacts on the filesystem under a base directory.
// URLs point back at the service's own /api/storage route.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: failed to create %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	filePath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("local storage: failed to create dir for %s: %w", key, err)
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("local storage: failed to write %s: %w", key, err)
	}

	log.Printf("[Storage] saved %s (%d bytes)", key, len(data))

	return &UploadResult{
		URL: "/api/storage/" + key,
		Key: key,
	}, nil
}

func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	filePath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("local storage: failed to read %s: %w", key, err)
	}
	return data, nil
}

// resolve maps a key onto the base directory and rejects traversal.
func (s *LocalStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("local storage: invalid key %q", key)
	}
	return filepath.Join(s.dir, cleaned), nil
}
