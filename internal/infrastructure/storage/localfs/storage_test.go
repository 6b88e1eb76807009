package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	key := "ing-1_commercial_invoice.pdf"
	if err := storage.Save(context.Background(), key, strings.NewReader("raw document bytes")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	f, err := storage.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != "raw document bytes" {
		t.Fatalf("content = %q", content)
	}
}

func TestOpenMissingKey(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := storage.Open(context.Background(), "ing-missing_doc.pdf"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestKeyCannotEscapeBaseDir(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, key := range []string{"../outside.pdf", "../../etc/passwd", ".."} {
		if err := storage.Save(context.Background(), key, strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) accepted a key outside the base dir", key)
		}
		if _, err := storage.Open(context.Background(), key); err == nil {
			t.Errorf("Open(%q) accepted a key outside the base dir", key)
		}
	}
}
