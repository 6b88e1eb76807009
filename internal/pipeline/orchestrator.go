package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/domain"
	"github.com/tradefin-labs/formflow/internal/core/ports"
)

const (
	longTextThreshold   = 50
	longTextConfidence  = 0.85
	shortTextConfidence = 0.60
)

// FieldExtractor produces the field set persisted in stage three.
type FieldExtractor interface {
	Extract(text string, docType domain.DocumentType) domain.ExtractedFieldSet
}

// Summary counts what one run persisted.
type Summary struct {
	TotalSegments    int `json:"totalSegments"`
	TotalTextRecords int `json:"totalTextRecords"`
	TotalFields      int `json:"totalFields"`
}

// Result reports the ids created by each stage, positionally aligned with
// the input forms. FieldIDs is per segment.
type Result struct {
	SegmentIDs []string   `json:"segment_ids"`
	TextIDs    []string   `json:"text_ids"`
	FieldIDs   [][]string `json:"field_ids"`
	Summary    Summary    `json:"summary"`
}

// Orchestrator persists detected forms in three dependent stages: segment
// records, then per-segment text records, then per-segment field records.
// Each stage consumes the ids the previous stage returned; a store error
// aborts the run with whatever ids were already created left in place.
type Orchestrator struct {
	segments  ports.SegmentStore
	texts     ports.TextStore
	fields    ports.FieldStore
	extractor FieldExtractor
	logger    *slog.Logger
}

func NewOrchestrator(
	segments ports.SegmentStore,
	texts ports.TextStore,
	fields ports.FieldStore,
	extractor FieldExtractor,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		segments:  segments,
		texts:     texts,
		fields:    fields,
		extractor: extractor,
		logger:    logger,
	}
}

// Run persists forms and their per-form texts for one ingestion. forms and
// texts are positionally aligned; when their lengths differ the later stages
// cover only the shorter prefix.
func (o *Orchestrator) Run(ctx context.Context, ingestionID, filename string, forms []domain.FormSegment, texts []string) (*Result, error) {
	started := time.Now()

	segmentIDs, err := o.createSegments(ctx, ingestionID, forms)
	if err != nil {
		return nil, err
	}

	pairCount := len(segmentIDs)
	if len(texts) < pairCount {
		pairCount = len(texts)
	}

	textIDs, err := o.createTextRecords(ctx, ingestionID, filename, forms, segmentIDs[:pairCount], texts)
	if err != nil {
		return nil, err
	}

	fieldIDs, totalFields, err := o.createFieldRecords(ctx, ingestionID, forms, segmentIDs[:len(textIDs)], texts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		SegmentIDs: segmentIDs,
		TextIDs:    textIDs,
		FieldIDs:   fieldIDs,
		Summary: Summary{
			TotalSegments:    len(segmentIDs),
			TotalTextRecords: len(textIDs),
			TotalFields:      totalFields,
		},
	}
	o.logger.Info("pipeline_run_completed",
		"ingestion_id", ingestionID,
		"segments", result.Summary.TotalSegments,
		"text_records", result.Summary.TotalTextRecords,
		"fields", result.Summary.TotalFields,
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return result, nil
}

func (o *Orchestrator) createSegments(ctx context.Context, ingestionID string, forms []domain.FormSegment) ([]string, error) {
	ids := make([]string, 0, len(forms))
	for i, form := range forms {
		form.IngestionID = ingestionID
		form.Seq = i
		id, err := o.segments.CreateSegmentRecord(ctx, form)
		if err != nil {
			return nil, fmt.Errorf("persist segment %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (o *Orchestrator) createTextRecords(ctx context.Context, ingestionID, filename string, forms []domain.FormSegment, segmentIDs []string, texts []string) ([]string, error) {
	ids := make([]string, 0, len(segmentIDs))
	for i, segmentID := range segmentIDs {
		record := domain.TextRecord{
			SegmentID:   segmentID,
			IngestionID: ingestionID,
			Filename:    filename,
			Type:        forms[i].Type,
			Confidence:  textConfidence(texts[i]),
			Text:        texts[i],
		}
		id, err := o.texts.CreateTextRecord(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("persist text record %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (o *Orchestrator) createFieldRecords(ctx context.Context, ingestionID string, forms []domain.FormSegment, segmentIDs []string, texts []string) ([][]string, int, error) {
	perSegment := make([][]string, 0, len(segmentIDs))
	total := 0
	for i, segmentID := range segmentIDs {
		set := o.extractor.Extract(texts[i], forms[i].Type)

		ids := make([]string, 0, len(set.Fields))
		for _, field := range set.Fields {
			record := domain.FieldRecord{
				SegmentID:   segmentID,
				IngestionID: ingestionID,
				Name:        field.Name,
				Value:       field.Value,
				Type:        set.Type,
				Method:      set.Method,
				Confidence:  field.Confidence,
				DataType:    field.DataType,
			}
			id, err := o.fields.CreateFieldRecord(ctx, record)
			if err != nil {
				return nil, 0, fmt.Errorf("persist field %q for segment %d: %w", field.Name, i, err)
			}
			ids = append(ids, id)
		}
		perSegment = append(perSegment, ids)
		total += len(ids)
	}
	return perSegment, total, nil
}

func textConfidence(text string) float64 {
	if len(text) > longTextThreshold {
		return longTextConfidence
	}
	return shortTextConfidence
}
