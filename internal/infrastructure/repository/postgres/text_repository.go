package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

type TextRepository struct {
	db *sql.DB
}

func NewTextRepository(db *sql.DB) *TextRepository {
	return &TextRepository{db: db}
}

func (r *TextRepository) EnsureSchema(ctx context.Context) error {
	const query = `
CREATE TABLE IF NOT EXISTS segment_texts (
	id TEXT PRIMARY KEY,
	segment_id TEXT NOT NULL UNIQUE,
	ingestion_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	doc_type TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	text TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_segment_texts_ingestion ON segment_texts(ingestion_id);
`
	return ensureSchema(ctx, r.db, 2026083103, query)
}

// CreateTextRecord upserts on segment_id: a segment has at most one text
// record, and reprocessing replaces it.
func (r *TextRepository) CreateTextRecord(ctx context.Context, rec domain.TextRecord) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	row := r.db.QueryRowContext(ctx, `
INSERT INTO segment_texts (id, segment_id, ingestion_id, filename, doc_type, confidence, text, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (segment_id) DO UPDATE
SET filename = EXCLUDED.filename, doc_type = EXCLUDED.doc_type, confidence = EXCLUDED.confidence, text = EXCLUDED.text
RETURNING id
`, id, rec.SegmentID, rec.IngestionID, rec.Filename, string(rec.Type), rec.Confidence, rec.Text, time.Now().UTC())

	var persistedID string
	if err := row.Scan(&persistedID); err != nil {
		return "", fmt.Errorf("insert text record: %w", err)
	}
	return persistedID, nil
}

func (r *TextRepository) ListByIngestion(ctx context.Context, ingestionID string) ([]domain.TextRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT t.id, t.segment_id, t.ingestion_id, t.filename, t.doc_type, t.confidence, t.text, t.created_at
FROM segment_texts t
JOIN form_segments s ON s.id = t.segment_id
WHERE t.ingestion_id = $1
ORDER BY s.seq
`, ingestionID)
	if err != nil {
		return nil, fmt.Errorf("list text records: %w", err)
	}
	defer rows.Close()

	var records []domain.TextRecord
	for rows.Next() {
		var rec domain.TextRecord
		var docType string
		if err := rows.Scan(&rec.ID, &rec.SegmentID, &rec.IngestionID, &rec.Filename, &docType, &rec.Confidence, &rec.Text, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan text record: %w", err)
		}
		rec.Type = domain.DocumentType(docType)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate text records: %w", err)
	}
	return records, nil
}
