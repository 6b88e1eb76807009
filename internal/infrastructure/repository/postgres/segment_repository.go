package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

type SegmentRepository struct {
	db *sql.DB
}

func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

func (r *SegmentRepository) EnsureSchema(ctx context.Context) error {
	const query = `
CREATE TABLE IF NOT EXISTS form_segments (
	id TEXT PRIMARY KEY,
	ingestion_id TEXT NOT NULL,
	seq INT NOT NULL,
	doc_type TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	page_range TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (ingestion_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_form_segments_ingestion ON form_segments(ingestion_id);
`
	return ensureSchema(ctx, r.db, 2026083102, query)
}

// CreateSegmentRecord upserts on (ingestion_id, seq) so a reprocessed
// ingestion overwrites its own segments instead of duplicating them. The
// returned id is the surviving row's id either way.
func (r *SegmentRepository) CreateSegmentRecord(ctx context.Context, seg domain.FormSegment) (string, error) {
	id := seg.ID
	if id == "" {
		id = uuid.NewString()
	}

	row := r.db.QueryRowContext(ctx, `
INSERT INTO form_segments (id, ingestion_id, seq, doc_type, confidence, page_range, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (ingestion_id, seq) DO UPDATE
SET doc_type = EXCLUDED.doc_type, confidence = EXCLUDED.confidence, page_range = EXCLUDED.page_range
RETURNING id
`, id, seg.IngestionID, seg.Seq, string(seg.Type), seg.Confidence, seg.PageRange, time.Now().UTC())

	var persistedID string
	if err := row.Scan(&persistedID); err != nil {
		return "", fmt.Errorf("insert form segment: %w", err)
	}
	return persistedID, nil
}

func (r *SegmentRepository) ListByIngestion(ctx context.Context, ingestionID string) ([]domain.FormSegment, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, ingestion_id, seq, doc_type, confidence, page_range
FROM form_segments
WHERE ingestion_id = $1
ORDER BY seq
`, ingestionID)
	if err != nil {
		return nil, fmt.Errorf("list form segments: %w", err)
	}
	defer rows.Close()

	var segments []domain.FormSegment
	for rows.Next() {
		var seg domain.FormSegment
		var docType string
		var pageRange sql.NullString
		if err := rows.Scan(&seg.ID, &seg.IngestionID, &seg.Seq, &docType, &seg.Confidence, &pageRange); err != nil {
			return nil, fmt.Errorf("scan form segment: %w", err)
		}
		seg.Type = domain.DocumentType(docType)
		seg.PageRange = pageRange.String
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate form segments: %w", err)
	}
	return segments, nil
}
