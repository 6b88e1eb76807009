package ports

import (
	"context"
	"io"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

// DocumentIngestor is the inbound contract for upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, size int64, body io.Reader) (*domain.Ingestion, error)
}

// IngestionProcessor is the inbound contract for asynchronous pipeline processing.
type IngestionProcessor interface {
	ProcessByID(ctx context.Context, ingestionID string) error
}

// IngestionQueryService is the inbound read surface: the ingestion record,
// the live step snapshot, the persisted stage artifacts, and the data the
// export needs in one call.
type IngestionQueryService interface {
	GetByID(ctx context.Context, id string) (*domain.Ingestion, error)
	Status(ctx context.Context, id string) (map[domain.Step]domain.StepState, error)
	Segments(ctx context.Context, id string) ([]domain.FormSegment, error)
	Texts(ctx context.Context, id string) ([]domain.TextRecord, error)
	Fields(ctx context.Context, id string) ([]domain.FieldRecord, error)
	ExportData(ctx context.Context, id string) (*domain.Ingestion, []domain.FormSegment, []domain.FieldRecord, error)
}
