package usecase

import (
	"context"
	"fmt"

	"github.com/tradefin-labs/formflow/internal/core/domain"
	"github.com/tradefin-labs/formflow/internal/core/ports"
)

// QueryIngestionUseCase serves the read-back surface: the ingestion record,
// the live step snapshot, and the persisted artifacts of each stage.
type QueryIngestionUseCase struct {
	repo     ports.IngestionRepository
	segments ports.SegmentStore
	texts    ports.TextStore
	fields   ports.FieldStore
	tracker  ports.StatusTracker
}

func NewQueryIngestionUseCase(
	repo ports.IngestionRepository,
	segments ports.SegmentStore,
	texts ports.TextStore,
	fields ports.FieldStore,
	tracker ports.StatusTracker,
) *QueryIngestionUseCase {
	return &QueryIngestionUseCase{
		repo:     repo,
		segments: segments,
		texts:    texts,
		fields:   fields,
		tracker:  tracker,
	}
}

func (uc *QueryIngestionUseCase) GetByID(ctx context.Context, id string) (*domain.Ingestion, error) {
	ing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch ingestion: %w", err)
	}
	return ing, nil
}

// Status returns the tracker snapshot for an existing ingestion. Looking the
// ingestion up first keeps unknown ids a 404 instead of an all-pending map.
func (uc *QueryIngestionUseCase) Status(ctx context.Context, id string) (map[domain.Step]domain.StepState, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("fetch ingestion: %w", err)
	}
	return uc.tracker.Snapshot(id), nil
}

func (uc *QueryIngestionUseCase) Segments(ctx context.Context, id string) ([]domain.FormSegment, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("fetch ingestion: %w", err)
	}
	segments, err := uc.segments.ListByIngestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	return segments, nil
}

func (uc *QueryIngestionUseCase) Texts(ctx context.Context, id string) ([]domain.TextRecord, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("fetch ingestion: %w", err)
	}
	records, err := uc.texts.ListByIngestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list text records: %w", err)
	}
	return records, nil
}

func (uc *QueryIngestionUseCase) Fields(ctx context.Context, id string) ([]domain.FieldRecord, error) {
	if _, err := uc.repo.GetByID(ctx, id); err != nil {
		return nil, fmt.Errorf("fetch ingestion: %w", err)
	}
	records, err := uc.fields.ListByIngestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list field records: %w", err)
	}
	return records, nil
}

// ExportData gathers everything the XLSX export needs in one call.
func (uc *QueryIngestionUseCase) ExportData(ctx context.Context, id string) (*domain.Ingestion, []domain.FormSegment, []domain.FieldRecord, error) {
	ing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetch ingestion: %w", err)
	}
	segments, err := uc.segments.ListByIngestion(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list segments: %w", err)
	}
	fields, err := uc.fields.ListByIngestion(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list field records: %w", err)
	}
	return ing, segments, fields, nil
}
