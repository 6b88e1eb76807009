package ports

import (
	"context"
	"io"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

// IngestionRepository persists and reads ingestion state.
type IngestionRepository interface {
	Create(ctx context.Context, ing *domain.Ingestion) error
	GetByID(ctx context.Context, id string) (*domain.Ingestion, error)
	UpdateStatus(ctx context.Context, id string, status domain.IngestionStatus, errMessage string) error
	AppendStep(ctx context.Context, id string, record domain.StepRecord) error
}

// SegmentStore persists stage-1 segment records.
type SegmentStore interface {
	CreateSegmentRecord(ctx context.Context, seg domain.FormSegment) (string, error)
	ListByIngestion(ctx context.Context, ingestionID string) ([]domain.FormSegment, error)
}

// TextStore persists stage-2 OCR text records keyed by segment id.
type TextStore interface {
	CreateTextRecord(ctx context.Context, rec domain.TextRecord) (string, error)
	ListByIngestion(ctx context.Context, ingestionID string) ([]domain.TextRecord, error)
}

// FieldStore persists stage-3 extracted field records keyed by segment id.
type FieldStore interface {
	CreateFieldRecord(ctx context.Context, rec domain.FieldRecord) (string, error)
	ListByIngestion(ctx context.Context, ingestionID string) ([]domain.FieldRecord, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishIngestionReceived(ctx context.Context, ingestionID string) error
	SubscribeIngestionReceived(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, ing *domain.Ingestion) (string, error)
}

// DocumentAnalyzer classifies a whole file through the remote
// document-analysis service. Errors are surfaced so the caller can decide
// to fall back; the adapter never hides unavailability.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, content io.Reader, filename string) (domain.ClassificationResult, error)
}

// FallbackClassifier produces a filename-only classification when the
// remote service cannot. It cannot fail.
type FallbackClassifier interface {
	Classify(filename string) domain.ClassificationResult
}

// StatusTracker records externally-driven step transitions per ingestion.
// ForgetAfter bounds the tracker's memory: processing schedules it once an
// ingestion reaches a terminal status.
type StatusTracker interface {
	SetStep(ingestionID string, step domain.Step, state domain.StepState)
	Snapshot(ingestionID string) map[domain.Step]domain.StepState
	ForgetAfter(ingestionID string, after time.Duration)
}
