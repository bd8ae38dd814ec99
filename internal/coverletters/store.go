package coverletters

import "context"

// Store persists generated letters keyed by job description. It is
// append-only: entries are never updated or removed.
type Store interface {
	Load(ctx context.Context) (Mapping, error)
	Append(ctx context.Context, key, letter string) error
}
