package local

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	key, size, mimeType, err := store.Save(ctx, "guest:abc", "resume.txt", strings.NewReader("JOHN DOE\nSKILLS"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("JOHN DOE\nSKILLS")) {
		t.Fatalf("unexpected size %d", size)
	}
	if !strings.HasPrefix(mimeType, "text/plain") {
		t.Fatalf("unexpected mime type %q", mimeType)
	}
	if !strings.HasSuffix(key, "_resume.txt") {
		t.Fatalf("unexpected key %q", key)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "JOHN DOE\nSKILLS" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestSaveWithKeyOverwritesAndDelete(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	if _, err := store.SaveWithKey(ctx, "reports/s1.pdf", "application/pdf", bytes.NewReader([]byte("one"))); err != nil {
		t.Fatalf("SaveWithKey: %v", err)
	}
	if _, err := store.SaveWithKey(ctx, "reports/s1.pdf", "application/pdf", bytes.NewReader([]byte("two"))); err != nil {
		t.Fatalf("SaveWithKey overwrite: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "reports", "s1.pdf"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != "two" {
		t.Fatalf("expected overwrite, got %q", data)
	}

	if err := store.Delete(ctx, "reports/s1.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "reports/s1.pdf"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
}
