package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/domain"
	"github.com/tradefin-labs/formflow/internal/core/ports"
	"github.com/tradefin-labs/formflow/internal/pipeline"
)

// statusRetention keeps a finished ingestion's tracker state visible to
// polling clients before the in-memory map entry is dropped.
const statusRetention = 10 * time.Minute

// FormDetector splits extracted text into classified form segments.
type FormDetector interface {
	DetectForms(text string) []domain.FormSegment
}

// PipelineRunner persists detected forms through the three stages.
type PipelineRunner interface {
	Run(ctx context.Context, ingestionID, filename string, forms []domain.FormSegment, texts []string) (*pipeline.Result, error)
}

type ProcessIngestionUseCase struct {
	repo      ports.IngestionRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	analyzer  ports.DocumentAnalyzer
	fallback  ports.FallbackClassifier
	detector  FormDetector
	runner    PipelineRunner
	tracker   ports.StatusTracker
	logger    *slog.Logger
}

func NewProcessIngestionUseCase(
	repo ports.IngestionRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	analyzer ports.DocumentAnalyzer,
	fallback ports.FallbackClassifier,
	detector FormDetector,
	runner PipelineRunner,
	tracker ports.StatusTracker,
	logger *slog.Logger,
) *ProcessIngestionUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessIngestionUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		analyzer:  analyzer,
		fallback:  fallback,
		detector:  detector,
		runner:    runner,
		tracker:   tracker,
		logger:    logger,
	}
}

// ProcessByID runs the full pipeline for one uploaded ingestion: text
// extraction, whole-file classification (remote with filename fallback),
// form splitting, and the three persistence stages. A failing step is
// recorded as `error` and the ingestion is marked failed; earlier completed
// steps and already-persisted records stay as they are.
func (uc *ProcessIngestionUseCase) ProcessByID(ctx context.Context, ingestionID string) error {
	if err := uc.repo.UpdateStatus(ctx, ingestionID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	ing, err := uc.repo.GetByID(ctx, ingestionID)
	if err != nil {
		return fmt.Errorf("fetch ingestion by id: %w", err)
	}

	text, err := uc.runOCR(ctx, ing)
	if err != nil {
		return uc.fail(ctx, ing.ID, domain.StepOCR, err)
	}

	classification := uc.classifyFile(ctx, ing)

	forms, err := uc.splitForms(ctx, ing, text, classification)
	if err != nil {
		return uc.fail(ctx, ing.ID, domain.StepDocumentSplitting, err)
	}

	result, err := uc.persistForms(ctx, ing, forms)
	if err != nil {
		return uc.fail(ctx, ing.ID, domain.StepFormGrouping, err)
	}

	if err := uc.repo.UpdateStatus(ctx, ing.ID, domain.StatusCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}
	uc.tracker.ForgetAfter(ing.ID, statusRetention)

	uc.logger.Info("ingestion_processed",
		"ingestion_id", ing.ID,
		"filename", ing.Filename,
		"classification_method", classification.Method,
		"whole_file_type", string(classification.Type),
		"segments", result.Summary.TotalSegments,
		"text_records", result.Summary.TotalTextRecords,
		"fields", result.Summary.TotalFields,
	)
	return nil
}

func (uc *ProcessIngestionUseCase) runOCR(ctx context.Context, ing *domain.Ingestion) (string, error) {
	uc.startStep(ctx, ing.ID, domain.StepOCR)

	text, err := uc.extractor.Extract(ctx, ing)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}

	uc.completeStep(ctx, ing.ID, domain.StepOCR, fmt.Sprintf("%d chars", len(text)))
	return text, nil
}

// classifyFile runs the whole-file classification path. Remote analysis
// errors are not fatal: the filename fallback always yields a result, so
// this step cannot fail the ingestion.
func (uc *ProcessIngestionUseCase) classifyFile(ctx context.Context, ing *domain.Ingestion) domain.ClassificationResult {
	uc.startStep(ctx, ing.ID, domain.StepFormDetection)

	classification, err := uc.analyzeRemote(ctx, ing)
	if err != nil {
		uc.logger.Warn("remote_analysis_unavailable",
			"ingestion_id", ing.ID,
			"filename", ing.Filename,
			"error", err,
		)
		classification = uc.fallback.Classify(ing.Filename)
	}

	uc.completeStep(ctx, ing.ID, domain.StepFormDetection,
		fmt.Sprintf("%s via %s", classification.Type, classification.Method))
	return classification
}

func (uc *ProcessIngestionUseCase) analyzeRemote(ctx context.Context, ing *domain.Ingestion) (domain.ClassificationResult, error) {
	reader, err := uc.storage.Open(ctx, ing.StoragePath)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("open source document: %w", err)
	}
	defer reader.Close()

	return uc.analyzer.Analyze(ctx, reader, ing.Filename)
}

// splitForms cuts the extracted text into classified segments. When the
// split yields a single unclassified segment and the whole-file path found a
// concrete type, that type wins.
func (uc *ProcessIngestionUseCase) splitForms(ctx context.Context, ing *domain.Ingestion, text string, classification domain.ClassificationResult) ([]domain.FormSegment, error) {
	uc.startStep(ctx, ing.ID, domain.StepDocumentSplitting)

	forms := uc.detector.DetectForms(text)
	if len(forms) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "split forms", errors.New("no segments detected"))
	}

	if len(forms) == 1 && forms[0].Type == domain.TypeUnclassified && isConcreteType(classification.Type) {
		forms[0].Type = classification.Type
		if classification.Confidence > forms[0].Confidence {
			forms[0].Confidence = classification.Confidence
		}
	}

	uc.completeStep(ctx, ing.ID, domain.StepDocumentSplitting, fmt.Sprintf("%d segments", len(forms)))
	return forms, nil
}

func (uc *ProcessIngestionUseCase) persistForms(ctx context.Context, ing *domain.Ingestion, forms []domain.FormSegment) (*pipeline.Result, error) {
	uc.startStep(ctx, ing.ID, domain.StepFormGrouping)

	texts := make([]string, len(forms))
	for i, form := range forms {
		texts[i] = form.Text
	}

	result, err := uc.runner.Run(ctx, ing.ID, ing.Filename, forms, texts)
	if err != nil {
		return nil, fmt.Errorf("run persistence pipeline: %w", err)
	}

	uc.completeStep(ctx, ing.ID, domain.StepFormGrouping,
		fmt.Sprintf("%d segments, %d fields", result.Summary.TotalSegments, result.Summary.TotalFields))
	return result, nil
}

func (uc *ProcessIngestionUseCase) startStep(ctx context.Context, ingestionID string, step domain.Step) {
	uc.tracker.SetStep(ingestionID, step, domain.StepProcessing)
	uc.appendStep(ctx, ingestionID, step, domain.StepProcessing, "")
}

func (uc *ProcessIngestionUseCase) completeStep(ctx context.Context, ingestionID string, step domain.Step, detail string) {
	uc.tracker.SetStep(ingestionID, step, domain.StepCompleted)
	uc.appendStep(ctx, ingestionID, step, domain.StepCompleted, detail)
}

func (uc *ProcessIngestionUseCase) appendStep(ctx context.Context, ingestionID string, step domain.Step, state domain.StepState, detail string) {
	record := domain.StepRecord{
		Step:       step,
		State:      state,
		Detail:     detail,
		RecordedAt: time.Now().UTC(),
	}
	if err := uc.repo.AppendStep(ctx, ingestionID, record); err != nil {
		uc.logger.Warn("append_step_failed", "ingestion_id", ingestionID, "step", string(step), "error", err)
	}
}

func (uc *ProcessIngestionUseCase) fail(ctx context.Context, ingestionID string, step domain.Step, processErr error) error {
	uc.tracker.SetStep(ingestionID, step, domain.StepError)
	uc.appendStep(ctx, ingestionID, step, domain.StepError, processErr.Error())

	if err := uc.repo.UpdateStatus(ctx, ingestionID, domain.StatusFailed, processErr.Error()); err != nil {
		return fmt.Errorf("%w; mark failed status: %v", processErr, err)
	}
	uc.tracker.ForgetAfter(ingestionID, statusRetention)
	return processErr
}

func isConcreteType(t domain.DocumentType) bool {
	return t != "" && t != domain.TypeUnclassified && t != domain.TypeUnknown
}
