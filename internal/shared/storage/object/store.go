package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no object exists under the requested key.
var ErrNotFound = errors.New("object not found")

// Reader opens stored binary objects by key. Callers must close the result.
type Reader interface {
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
