package domain

import "time"

// TextRecord is the stage-2 durable artifact: the OCR text of one segment.
// It can only exist once the segment record it references has been written.
type TextRecord struct {
	ID          string       `json:"id"`
	SegmentID   string       `json:"segment_id"`
	IngestionID string       `json:"ingestion_id"`
	Filename    string       `json:"filename"`
	Type        DocumentType `json:"type"`
	Confidence  float64      `json:"confidence"`
	Text        string       `json:"text"`
	CreatedAt   time.Time    `json:"created_at"`
}

// FieldRecord is the stage-3 durable artifact: one extracted field of one
// segment. Append-only; a nil Value records that the rule did not match.
type FieldRecord struct {
	ID          string       `json:"id"`
	SegmentID   string       `json:"segment_id"`
	IngestionID string       `json:"ingestion_id"`
	Name        string       `json:"name"`
	Value       *string      `json:"value"`
	Type        DocumentType `json:"type"`
	Method      string       `json:"method"`
	Confidence  float64      `json:"confidence"`
	DataType    string       `json:"data_type"`
	CreatedAt   time.Time    `json:"created_at"`
}
