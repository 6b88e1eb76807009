package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

func TestCreateFieldRecordUpsertsNilValue(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewFieldRepository(db)

	mock.ExpectQuery("INSERT INTO segment_fields").
		WithArgs(sqlmock.AnyArg(), "seg-0", "ing-1", "invoiceNumber", nil,
			string(domain.TypeCommercialInvoice), "rule_based", 0.0, "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("fld-1"))

	id, err := repo.CreateFieldRecord(context.Background(), domain.FieldRecord{
		SegmentID:   "seg-0",
		IngestionID: "ing-1",
		Name:        "invoiceNumber",
		Type:        domain.TypeCommercialInvoice,
		Method:      "rule_based",
	})
	if err != nil {
		t.Fatalf("CreateFieldRecord() error = %v", err)
	}
	if id != "fld-1" {
		t.Fatalf("id = %q", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFieldListByIngestionRestoresNilValues(t *testing.T) {
	db, mock, done := newMockDB(t)
	defer done()
	repo := NewFieldRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "segment_id", "ingestion_id", "field_name", "field_value", "doc_type", "method", "confidence", "data_type", "created_at",
	}).
		AddRow("fld-0", "seg-0", "ing-1", "invoiceNumber", "INV-100", "Commercial Invoice", "rule_based", 0.9, "reference", now).
		AddRow("fld-1", "seg-0", "ing-1", "seller", nil, "Commercial Invoice", "rule_based", 0.0, "text", now)

	mock.ExpectQuery("SELECT f.id, f.segment_id").
		WithArgs("ing-1").
		WillReturnRows(rows)

	got, err := repo.ListByIngestion(context.Background(), "ing-1")
	if err != nil {
		t.Fatalf("ListByIngestion() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Value == nil || *got[0].Value != "INV-100" {
		t.Errorf("field 0 value = %v", got[0].Value)
	}
	if got[1].Value != nil {
		t.Errorf("field 1 value = %v, want nil", *got[1].Value)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
