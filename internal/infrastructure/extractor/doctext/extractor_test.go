package doctext

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

type memStorage struct {
	files map[string][]byte
}

func (s *memStorage) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[key] = raw
	return nil
}

func (s *memStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := s.files[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func TestExtractPlainText(t *testing.T) {
	storage := &memStorage{files: map[string][]byte{
		"ing-1": []byte("  COMMERCIAL INVOICE\nInvoice No: INV-1\n  "),
	}}
	e := NewExtractor(storage)

	got, err := e.Extract(context.Background(), &domain.Ingestion{
		StoragePath: "ing-1",
		MimeType:    "text/plain",
		Filename:    "invoice.txt",
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "COMMERCIAL INVOICE\nInvoice No: INV-1" {
		t.Fatalf("text = %q", got)
	}
}

func TestExtractRejectsBinaryNonPDF(t *testing.T) {
	storage := &memStorage{files: map[string][]byte{
		"ing-1": {0x00, 0xff, 0xfe, 0x01},
	}}
	e := NewExtractor(storage)

	_, err := e.Extract(context.Background(), &domain.Ingestion{
		StoragePath: "ing-1",
		MimeType:    "application/octet-stream",
		Filename:    "scan.bin",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExtractMissingObject(t *testing.T) {
	e := NewExtractor(&memStorage{})
	_, err := e.Extract(context.Background(), &domain.Ingestion{StoragePath: "gone"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	storage := &memStorage{files: map[string][]byte{
		"ing-1": []byte("%PDF-1.4 not really a pdf"),
	}}
	e := NewExtractor(storage)

	_, err := e.Extract(context.Background(), &domain.Ingestion{
		StoragePath: "ing-1",
		MimeType:    "application/pdf",
		Filename:    "broken.pdf",
	})
	if err == nil {
		t.Fatalf("expected parse error for corrupt pdf")
	}
}
