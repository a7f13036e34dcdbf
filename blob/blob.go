// Package blob persists attachment bytes outside the database.
package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves raw bytes under a caller-visible name and returns the locator
// the rest of the system uses to reference them.
type Store interface {
	Save(src io.Reader, name string) (locator string, err error)
}

// DiskStore keeps blobs as flat files in one directory. Stored names are
// random so colliding upload filenames never overwrite each other.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the bytes to a fresh file and returns its name within the
// store directory.
func (s *DiskStore) Save(src io.Reader, name string) (string, error) {
	stored := uuid.NewString() + strings.ToLower(filepath.Ext(name))
	path := filepath.Join(s.dir, stored)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create blob file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close blob: %w", err)
	}
	return stored, nil
}

// Dir returns the directory blobs are stored in, for static serving.
func (s *DiskStore) Dir() string {
	return s.dir
}
