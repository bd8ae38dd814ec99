package coverletters

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"coverletter-backend/internal/shared/util"
)

// PGStore implements Store using Postgres. Each append is one row; Load
// groups rows by job description in insertion order.
type PGStore struct {
	DB *sql.DB
}

// Append inserts a single cache row.
func (s *PGStore) Append(ctx context.Context, key, letter string) error {
	const query = `
INSERT INTO cover_letters (id, job_description, key_hash, returned_query)
VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query, uuid.NewString(), key, util.HashKey(key), letter); err != nil {
		return fmt.Errorf("%w: insert cover letter: %w", ErrCacheWrite, err)
	}
	return nil
}

// Load returns every stored letter grouped by job description, oldest first.
func (s *PGStore) Load(ctx context.Context) (Mapping, error) {
	const query = `
SELECT job_description, returned_query
FROM cover_letters
ORDER BY seq ASC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(Mapping)
	for rows.Next() {
		var key, letter string
		if err := rows.Scan(&key, &letter); err != nil {
			return nil, err
		}
		out[key] = append(out[key], Entry{ReturnedQuery: letter})
	}
	return out, rows.Err()
}

var _ Store = (*PGStore)(nil)
