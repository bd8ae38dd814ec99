package coverletters

import (
	"context"
	"sync"
)

// MemoryStore keeps the mapping in process memory and is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries Mapping
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(Mapping)}
}

// Load returns a copy of the mapping.
func (s *MemoryStore) Load(ctx context.Context) (Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries.clone(), nil
}

// Append records letter under key.
func (s *MemoryStore) Append(ctx context.Context, key, letter string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append(s.entries[key], Entry{ReturnedQuery: letter})
	return nil
}

var _ Store = (*MemoryStore)(nil)
