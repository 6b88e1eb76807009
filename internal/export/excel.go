package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

const (
	segmentsSheet = "Segments"
	fieldsSheet   = "Fields"
)

// WriteWorkbook renders one ingestion's segments and extracted fields as an
// XLSX workbook. Rows follow the stores' ordering (segment seq).
func WriteWorkbook(w io.Writer, ing *domain.Ingestion, segments []domain.FormSegment, fields []domain.FieldRecord) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", segmentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(fieldsSheet); err != nil {
		return fmt.Errorf("create fields sheet: %w", err)
	}

	if err := writeSegments(f, ing, segments); err != nil {
		return err
	}
	if err := writeFields(f, segments, fields); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSegments(f *excelize.File, ing *domain.Ingestion, segments []domain.FormSegment) error {
	header := []any{"Seq", "Document Type", "Confidence", "Page Range", "Source File"}
	if err := writeRow(f, segmentsSheet, 1, header); err != nil {
		return err
	}
	for i, seg := range segments {
		row := []any{seg.Seq, string(seg.Type), seg.Confidence, seg.PageRange, ing.Filename}
		if err := writeRow(f, segmentsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeFields(f *excelize.File, segments []domain.FormSegment, fields []domain.FieldRecord) error {
	seqBySegment := make(map[string]int, len(segments))
	for _, seg := range segments {
		seqBySegment[seg.ID] = seg.Seq
	}

	header := []any{"Segment", "Field", "Value", "Document Type", "Method", "Confidence", "Data Type"}
	if err := writeRow(f, fieldsSheet, 1, header); err != nil {
		return err
	}
	for i, rec := range fields {
		value := ""
		if rec.Value != nil {
			value = *rec.Value
		}
		row := []any{seqBySegment[rec.SegmentID], rec.Name, value, string(rec.Type), rec.Method, rec.Confidence, rec.DataType}
		if err := writeRow(f, fieldsSheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d cell name: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
