// Package blob is the photo storage collaborator: bytes in, retrievable URL
// out. The production deployment fronts a hosted bucket; this implementation
// writes to local disk and serves files under a base URL.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Store interface {
	Upload(ctx context.Context, data []byte, path string) (string, error)
}

type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blob dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the backing directory, for mounting a static file route.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Upload(ctx context.Context, data []byte, path string) (string, error) {
	if strings.Contains(path, "..") {
		return "", fmt.Errorf("invalid blob path %q", path)
	}
	clean := filepath.Clean("/" + path)
	full := filepath.Join(s.dir, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("blob mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("blob write: %w", err)
	}
	return s.baseURL + clean, nil
}
