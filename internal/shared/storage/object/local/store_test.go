package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"coverletter-backend/internal/shared/storage/object"
)

func TestOpenRelativeKey(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "resume.pdf"), []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rc, err := New(dir).Open(context.Background(), "resume.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestOpenAbsoluteKeyIgnoresBaseDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.docx")
	if err := os.WriteFile(path, []byte("PK"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	rc, err := New(t.TempDir()).Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = rc.Close()
}

func TestOpenMissingReturnsNotFound(t *testing.T) {
	_, err := New(t.TempDir()).Open(context.Background(), "missing.pdf")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	for _, key := range []string{"../secret.pdf", "..", "  "} {
		if _, err := New(t.TempDir()).Open(context.Background(), key); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestOpenHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(t.TempDir()).Open(ctx, "resume.pdf"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
