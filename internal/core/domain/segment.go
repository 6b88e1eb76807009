package domain

import "time"

type DocumentType string

const (
	TypeCommercialInvoice    DocumentType = "Commercial Invoice"
	TypeBillOfLading         DocumentType = "Bill of Lading"
	TypeCertificateOfOrigin  DocumentType = "Certificate of Origin"
	TypePackingList          DocumentType = "Packing List"
	TypeLCDocument           DocumentType = "LC Document"
	TypeInsuranceCertificate DocumentType = "Insurance Certificate"
	TypeBillOfExchange       DocumentType = "Bill of Exchange"
	TypeUnclassified         DocumentType = "Unclassified"
	TypeUnknown              DocumentType = "Unknown Document"
)

// KnownTypes returns the classification vocabulary in its tie-break order:
// when two types score the same match count, the earlier one wins.
func KnownTypes() []DocumentType {
	return []DocumentType{
		TypeCommercialInvoice,
		TypeBillOfLading,
		TypeCertificateOfOrigin,
		TypePackingList,
		TypeLCDocument,
		TypeInsuranceCertificate,
		TypeBillOfExchange,
	}
}

// FormSegment is one contiguous span of a source document believed to be a
// single logical form. Immutable once persisted.
type FormSegment struct {
	ID          string       `json:"id,omitempty"`
	IngestionID string       `json:"ingestion_id"`
	Seq         int          `json:"seq"`
	Type        DocumentType `json:"type"`
	Confidence  float64      `json:"confidence"`
	Text        string       `json:"text,omitempty"`
	PageRange   string       `json:"page_range,omitempty"`
}

type Field struct {
	Name       string  `json:"name"`
	Value      *string `json:"value"`
	Confidence float64 `json:"confidence"`
	DataType   string  `json:"data_type"`
}

type ExtractedFieldSet struct {
	IngestionID string       `json:"ingestion_id"`
	SegmentID   string       `json:"segment_id,omitempty"`
	Type        DocumentType `json:"type"`
	Fields      []Field      `json:"fields"`
	TextLength  int          `json:"text_length"`
	Method      string       `json:"method"`
	ExtractedAt time.Time    `json:"extracted_at"`
}

// ClassificationResult is the outcome of either classification path.
// Confidence is always a 0.0-1.0 float; adapters speaking other units
// convert at their boundary.
type ClassificationResult struct {
	Type       DocumentType      `json:"type"`
	Confidence float64           `json:"confidence"`
	Fields     map[string]string `json:"fields"`
	Method     string            `json:"method"`
	Model      string            `json:"model,omitempty"`
	Elapsed    time.Duration     `json:"elapsed_ms"`
}
