package domain

import "time"

type IngestionStatus string

const (
	StatusProcessing IngestionStatus = "processing"
	StatusCompleted  IngestionStatus = "completed"
	StatusFailed     IngestionStatus = "failed"
)

// Step names match the processing order shown to polling clients.
type Step string

const (
	StepUpload            Step = "upload"
	StepOCR               Step = "ocr"
	StepFormDetection     Step = "form_detection"
	StepDocumentSplitting Step = "document_splitting"
	StepFormGrouping      Step = "form_grouping"
)

func PipelineSteps() []Step {
	return []Step{StepUpload, StepOCR, StepFormDetection, StepDocumentSplitting, StepFormGrouping}
}

type StepState string

const (
	StepPending    StepState = "pending"
	StepProcessing StepState = "processing"
	StepCompleted  StepState = "completed"
	StepError      StepState = "error"
)

type StepRecord struct {
	Step       Step      `json:"step"`
	State      StepState `json:"state"`
	Detail     string    `json:"detail,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type Ingestion struct {
	ID          string          `json:"id"`
	Filename    string          `json:"filename"`
	MimeType    string          `json:"mime_type"`
	SizeBytes   int64           `json:"size_bytes"`
	StoragePath string          `json:"storage_path"`
	Status      IngestionStatus `json:"status"`
	Error       string          `json:"error,omitempty"`
	Steps       []StepRecord    `json:"steps,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
