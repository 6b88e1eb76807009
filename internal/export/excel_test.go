package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

func TestWriteWorkbook(t *testing.T) {
	value := "INV-100"
	ing := &domain.Ingestion{ID: "ing-1", Filename: "pack.pdf"}
	segments := []domain.FormSegment{
		{ID: "seg-0", IngestionID: "ing-1", Seq: 0, Type: domain.TypeCommercialInvoice, Confidence: 0.9},
		{ID: "seg-1", IngestionID: "ing-1", Seq: 1, Type: domain.TypeBillOfLading, Confidence: 0.85},
	}
	fields := []domain.FieldRecord{
		{SegmentID: "seg-0", Name: "invoiceNumber", Value: &value, Type: domain.TypeCommercialInvoice, Method: "rule_based", Confidence: 0.9, DataType: "reference"},
		{SegmentID: "seg-1", Name: "shipper", Type: domain.TypeBillOfLading, Method: "rule_based"},
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, ing, segments, fields); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	segRows, err := f.GetRows(segmentsSheet)
	if err != nil {
		t.Fatalf("read segments sheet: %v", err)
	}
	if len(segRows) != 3 {
		t.Fatalf("segments rows = %d, want header + 2", len(segRows))
	}
	if segRows[1][1] != string(domain.TypeCommercialInvoice) || segRows[1][4] != "pack.pdf" {
		t.Errorf("segment row 1 = %v", segRows[1])
	}

	fieldRows, err := f.GetRows(fieldsSheet)
	if err != nil {
		t.Fatalf("read fields sheet: %v", err)
	}
	if len(fieldRows) != 3 {
		t.Fatalf("field rows = %d, want header + 2", len(fieldRows))
	}
	if fieldRows[1][1] != "invoiceNumber" || fieldRows[1][2] != "INV-100" {
		t.Errorf("field row 1 = %v", fieldRows[1])
	}
	if len(fieldRows[2]) > 2 && fieldRows[2][2] != "" {
		t.Errorf("nil value rendered as %q, want empty", fieldRows[2][2])
	}
}

func TestWriteWorkbookEmptyIngestion(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, &domain.Ingestion{ID: "ing-1"}, nil, nil); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("empty workbook output")
	}
}
