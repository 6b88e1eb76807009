package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

type IngestionRepository struct {
	db *sql.DB
}

func NewIngestionRepository(db *sql.DB) *IngestionRepository {
	return &IngestionRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *IngestionRepository) EnsureSchema(ctx context.Context) error {
	const query = `
CREATE TABLE IF NOT EXISTS ingestions (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	steps JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ingestions_status ON ingestions(status);
CREATE INDEX IF NOT EXISTS idx_ingestions_created_at ON ingestions(created_at DESC);
`
	return ensureSchema(ctx, r.db, 2026083101, query)
}

// ensureSchema runs bootstrap DDL under an advisory lock so api and worker
// startups do not race each other.
func ensureSchema(ctx context.Context, db *sql.DB, lockID int64, ddl string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, lockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *IngestionRepository) Create(ctx context.Context, ing *domain.Ingestion) error {
	stepsJSON, err := json.Marshal(ing.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO ingestions (
	id, filename, mime_type, size_bytes, storage_path, status, error_message, steps, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		ing.ID, ing.Filename, ing.MimeType, ing.SizeBytes, ing.StoragePath,
		string(ing.Status), ing.Error, stepsJSON, ing.CreatedAt, ing.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ingestion: %w", err)
	}
	return nil
}

func (r *IngestionRepository) GetByID(ctx context.Context, id string) (*domain.Ingestion, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, size_bytes, storage_path, status, error_message, steps, created_at, updated_at
FROM ingestions
WHERE id = $1
`, id)

	var ing domain.Ingestion
	var stepsRaw []byte
	var status string

	err := row.Scan(
		&ing.ID, &ing.Filename, &ing.MimeType, &ing.SizeBytes, &ing.StoragePath,
		&status, &ing.Error, &stepsRaw, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrIngestionNotFound, "ingestion get", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan ingestion: %w", err)
	}

	if err := json.Unmarshal(stepsRaw, &ing.Steps); err != nil {
		return nil, fmt.Errorf("unmarshal steps: %w", err)
	}
	ing.Status = domain.IngestionStatus(status)
	return &ing, nil
}

func (r *IngestionRepository) UpdateStatus(ctx context.Context, id string, status domain.IngestionStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE ingestions
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update ingestion status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrIngestionNotFound, "ingestion update status", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *IngestionRepository) AppendStep(ctx context.Context, id string, record domain.StepRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal step record: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
UPDATE ingestions
SET steps = steps || $2::jsonb, updated_at = $3
WHERE id = $1
`, id, recordJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append ingestion step: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.WrapError(domain.ErrIngestionNotFound, "ingestion append step", fmt.Errorf("id %s", id))
	}
	return nil
}
