package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tradefin-labs/formflow/internal/core/domain"
	"github.com/tradefin-labs/formflow/internal/core/ports"
)

type IngestUseCase struct {
	repo    ports.IngestionRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
	tracker ports.StatusTracker
}

func NewIngestUseCase(
	repo ports.IngestionRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	tracker ports.StatusTracker,
) *IngestUseCase {
	return &IngestUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
		tracker: tracker,
	}
}

// Upload stores the raw file, records the ingestion with its upload step
// completed, and hands processing off to the queue.
func (uc *IngestUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	size int64,
	body io.Reader,
) (*domain.Ingestion, error) {
	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	ing := &domain.Ingestion{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		SizeBytes:   size,
		StoragePath: storageKey,
		Status:      domain.StatusProcessing,
		Steps: []domain.StepRecord{
			{Step: domain.StepUpload, State: domain.StepCompleted, RecordedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, ing); err != nil {
		return nil, fmt.Errorf("create ingestion record: %w", err)
	}
	uc.tracker.SetStep(ing.ID, domain.StepUpload, domain.StepCompleted)

	if err := uc.queue.PublishIngestionReceived(ctx, ing.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return ing, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
