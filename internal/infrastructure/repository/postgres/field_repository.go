package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

type FieldRepository struct {
	db *sql.DB
}

func NewFieldRepository(db *sql.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

func (r *FieldRepository) EnsureSchema(ctx context.Context) error {
	const query = `
CREATE TABLE IF NOT EXISTS segment_fields (
	id TEXT PRIMARY KEY,
	segment_id TEXT NOT NULL,
	ingestion_id TEXT NOT NULL,
	field_name TEXT NOT NULL,
	field_value TEXT,
	doc_type TEXT NOT NULL,
	method TEXT NOT NULL,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	data_type TEXT NOT NULL DEFAULT 'text',
	created_at TIMESTAMPTZ NOT NULL,
	UNIQUE (segment_id, field_name)
);

CREATE INDEX IF NOT EXISTS idx_segment_fields_ingestion ON segment_fields(ingestion_id);
`
	return ensureSchema(ctx, r.db, 2026083104, query)
}

// CreateFieldRecord upserts on (segment_id, field_name) so reprocessing a
// segment refreshes its fields in place.
func (r *FieldRepository) CreateFieldRecord(ctx context.Context, rec domain.FieldRecord) (string, error) {
	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}

	row := r.db.QueryRowContext(ctx, `
INSERT INTO segment_fields (id, segment_id, ingestion_id, field_name, field_value, doc_type, method, confidence, data_type, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (segment_id, field_name) DO UPDATE
SET field_value = EXCLUDED.field_value, doc_type = EXCLUDED.doc_type, method = EXCLUDED.method,
	confidence = EXCLUDED.confidence, data_type = EXCLUDED.data_type
RETURNING id
`, id, rec.SegmentID, rec.IngestionID, rec.Name, rec.Value, string(rec.Type), rec.Method, rec.Confidence, rec.DataType, time.Now().UTC())

	var persistedID string
	if err := row.Scan(&persistedID); err != nil {
		return "", fmt.Errorf("insert field record: %w", err)
	}
	return persistedID, nil
}

func (r *FieldRepository) ListByIngestion(ctx context.Context, ingestionID string) ([]domain.FieldRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT f.id, f.segment_id, f.ingestion_id, f.field_name, f.field_value, f.doc_type, f.method, f.confidence, f.data_type, f.created_at
FROM segment_fields f
JOIN form_segments s ON s.id = f.segment_id
WHERE f.ingestion_id = $1
ORDER BY s.seq, f.field_name
`, ingestionID)
	if err != nil {
		return nil, fmt.Errorf("list field records: %w", err)
	}
	defer rows.Close()

	var records []domain.FieldRecord
	for rows.Next() {
		var rec domain.FieldRecord
		var docType string
		var value sql.NullString
		if err := rows.Scan(&rec.ID, &rec.SegmentID, &rec.IngestionID, &rec.Name, &value, &docType, &rec.Method, &rec.Confidence, &rec.DataType, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan field record: %w", err)
		}
		if value.Valid {
			v := value.String
			rec.Value = &v
		}
		rec.Type = domain.DocumentType(docType)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field records: %w", err)
	}
	return records, nil
}
