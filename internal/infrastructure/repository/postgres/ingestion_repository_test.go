package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return db, mock, func() { _ = db.Close() }
}

func TestIngestionGetByIDReturnsDomainNotFound(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewIngestionRepository(db)

	mock.ExpectQuery("SELECT id, filename, mime_type, size_bytes").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrIngestionNotFound) {
		t.Fatalf("expected ErrIngestionNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestIngestionGetByIDScansSteps(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewIngestionRepository(db)

	now := time.Now().UTC()
	steps := `[{"step":"upload","state":"completed","recorded_at":"2026-08-31T10:00:00Z"}]`
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "size_bytes", "storage_path", "status", "error_message", "steps", "created_at", "updated_at",
	}).AddRow("ing-1", "pack.pdf", "application/pdf", int64(1024), "/data/ing-1", "processing", "", []byte(steps), now, now)

	mock.ExpectQuery("SELECT id, filename, mime_type, size_bytes").
		WithArgs("ing-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "ing-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != domain.StatusProcessing || got.SizeBytes != 1024 {
		t.Errorf("ingestion = %+v", got)
	}
	if len(got.Steps) != 1 || got.Steps[0].Step != domain.StepUpload || got.Steps[0].State != domain.StepCompleted {
		t.Errorf("steps = %+v", got.Steps)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestIngestionUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewIngestionRepository(db)

	mock.ExpectExec("UPDATE ingestions").
		WithArgs("missing", string(domain.StatusCompleted), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusCompleted, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrIngestionNotFound) {
		t.Fatalf("expected ErrIngestionNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestIngestionAppendStepSerializesRecord(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewIngestionRepository(db)

	mock.ExpectExec("UPDATE ingestions").
		WithArgs("ing-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AppendStep(context.Background(), "ing-1", domain.StepRecord{
		Step:       domain.StepOCR,
		State:      domain.StepProcessing,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AppendStep() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
