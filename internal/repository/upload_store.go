package repository

import (
	"fmt"
	"os"
	"path/filepath"
)

// UploadStore writes uploaded files into a single directory.
type UploadStore struct {
	dir string
}

func NewUploadStore(dir string) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &UploadStore{dir: dir}, nil
}

func (s *UploadStore) Dir() string {
	return s.dir
}

func (s *UploadStore) Save(name string, data []byte) error {
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}
