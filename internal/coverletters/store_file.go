package coverletters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"coverletter-backend/internal/shared/telemetry"
)

const lockRetryDelay = 25 * time.Millisecond

// FileStore persists the mapping as a single pretty-printed JSON document.
//
// Appends are serialized within the process by a mutex and across processes
// by an advisory lock on "<path>.lock". Each append reloads the file under
// the lock and replaces it atomically, so concurrent writers never lose
// entries and readers never observe a partial file.
//
// An unparsable file is treated as empty unless Strict is set, in which case
// ErrCacheCorrupt is returned. In lenient mode the corrupt bytes are copied
// to "<path>.corrupt-<unix>" before the next append replaces them.
type FileStore struct {
	path   string
	strict bool

	mu   sync.Mutex
	lock *flock.Flock
	now  func() time.Time
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string, strict bool) *FileStore {
	return &FileStore{
		path:   path,
		strict: strict,
		lock:   flock.New(path + ".lock"),
		now:    time.Now,
	}
}

// Path returns the cache file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the current mapping. An absent or blank file yields an empty mapping.
func (s *FileStore) Load(ctx context.Context) (Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, _, err := s.read()
	return m, err
}

// Append adds letter under key and rewrites the whole mapping.
func (s *FileStore) Append(ctx context.Context, key, letter string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("%w: create cache dir: %w", ErrCacheWrite, err)
	}
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("%w: lock %s: %w", ErrCacheWrite, s.lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("%w: lock %s not acquired", ErrCacheWrite, s.lock.Path())
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			telemetry.Warn("cover_letter.cache_unlock_failed", map[string]any{
				"path":  s.lock.Path(),
				"error": err.Error(),
			})
		}
	}()

	m, corrupt, err := s.read()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	if corrupt != nil {
		if err := s.backupCorrupt(corrupt); err != nil {
			return fmt.Errorf("%w: %w", ErrCacheWrite, err)
		}
	}

	m[key] = append(m[key], Entry{ReturnedQuery: letter})

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode cache: %w", ErrCacheWrite, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheWrite, err)
	}
	return nil
}

// read returns the parsed mapping. When the file is corrupt and the store is
// lenient, it returns an empty mapping together with the raw bytes.
func (s *FileStore) read() (Mapping, []byte, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(Mapping), nil, nil
		}
		return nil, nil, fmt.Errorf("read cache %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return make(Mapping), nil, nil
	}

	var m Mapping
	if err := json.Unmarshal(raw, &m); err != nil {
		if s.strict {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrCacheCorrupt, s.path, err)
		}
		telemetry.Warn("cover_letter.cache_corrupt", map[string]any{
			"path":  s.path,
			"bytes": len(raw),
			"error": err.Error(),
		})
		return make(Mapping), raw, nil
	}
	if m == nil {
		m = make(Mapping)
	}
	return m, nil, nil
}

func (s *FileStore) backupCorrupt(raw []byte) error {
	backup := s.path + ".corrupt-" + strconv.FormatInt(s.now().Unix(), 10)
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		return fmt.Errorf("back up corrupt cache: %w", err)
	}
	telemetry.Warn("cover_letter.cache_corrupt_backup", map[string]any{
		"path":   s.path,
		"backup": backup,
	})
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
