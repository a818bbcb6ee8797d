package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each key in its own JSON file under a base directory.
// A configured byte quota stands in for the storage limits a shared
// key-value backend would impose.
type FileStore struct {
	dir      string
	maxBytes int
}

// NewFileStore creates the base directory if needed. maxBytes <= 0 disables
// the quota.
func NewFileStore(dir string, maxBytes int) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, maxBytes: maxBytes}, nil
}

func (s *FileStore) path(key string) string {
	// Keys use ':' as a namespace separator; keep filenames portable.
	return filepath.Join(s.dir, strings.ReplaceAll(key, ":", "_")+".json")
}

func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FileStore) Write(ctx context.Context, key string, data []byte) error {
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return ErrCapacityExceeded
	}

	// Write-then-rename so a crash mid-write never corrupts the blob.
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) Ping(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}
