package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"coverletter-backend/internal/shared/storage/object"
)

// Store reads objects from the local filesystem.
type Store struct {
	baseDir string
}

// New creates a local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Open opens a stored object for reading. Absolute keys are used as-is so a
// resume can live outside baseDir; relative keys may not escape it.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", fullPath, object.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", fullPath, err)
	}
	return f, nil
}

func (s *Store) resolve(storageKey string) (string, error) {
	if strings.TrimSpace(storageKey) == "" {
		return "", fmt.Errorf("invalid storage key")
	}
	if filepath.IsAbs(storageKey) {
		return filepath.Clean(storageKey), nil
	}
	clean := filepath.Clean(storageKey)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.Reader = (*Store)(nil)
