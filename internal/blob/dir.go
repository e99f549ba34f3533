package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DirStore persists blobs as files under a root directory. Keys use forward
// slashes and must not escape the root.
type DirStore struct {
	root string
}

func NewDirStore(root string) (*DirStore, error) {
	if root == "" {
		return nil, fmt.Errorf("blob root dir is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &DirStore{root: root}, nil
}

func (s *DirStore) Put(ctx context.Context, key string, data []byte) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create blob dir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	return nil
}

func (s *DirStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", key, err)
	}
	return b, nil
}

func (s *DirStore) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("blob key is empty")
	}
	p := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("blob key escapes root: %q", key)
	}
	return p, nil
}
