package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"profile-backend/internal/shared/storage/object"
)

func TestSaveWithKeyAndOpen(t *testing.T) {
	store := New(t.TempDir())
	payload := []byte("%PDF-1.3 fake")

	n, err := store.SaveWithKey(context.Background(), "profiles/sub-1/AI_Career_Profile.pdf", "application/pdf", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("written = %d, want %d", n, len(payload))
	}

	rc, err := store.Open(context.Background(), "profiles/sub-1/AI_Career_Profile.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestOpenMissingReturnsNotFound(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "profiles/none/AI_Career_Profile.pdf"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../outside.pdf", "/etc/passwd", "", "."} {
		if _, err := store.SaveWithKey(context.Background(), key, "application/pdf", bytes.NewReader(nil)); err == nil {
			t.Fatalf("expected SaveWithKey(%q) to fail", key)
		}
		if _, err := store.Open(context.Background(), key); err == nil {
			t.Fatalf("expected Open(%q) to fail", key)
		}
	}
}
