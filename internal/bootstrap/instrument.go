package bootstrap

import (
	"context"

	"github.com/tradefin-labs/formflow/internal/core/domain"
	"github.com/tradefin-labs/formflow/internal/core/ports"
	"github.com/tradefin-labs/formflow/internal/core/usecase"
	"github.com/tradefin-labs/formflow/internal/observability/metrics"
	"github.com/tradefin-labs/formflow/internal/pipeline"
)

// instrumentedRunner counts what each persistence stage wrote. Kept out of
// the pipeline package so the orchestrator stays metrics-free.
type instrumentedRunner struct {
	inner   *pipeline.Orchestrator
	metrics *metrics.WorkerMetrics
	service string
}

func newInstrumentedRunner(inner *pipeline.Orchestrator, m *metrics.WorkerMetrics, service string) usecase.PipelineRunner {
	return &instrumentedRunner{inner: inner, metrics: m, service: service}
}

func (r *instrumentedRunner) Run(
	ctx context.Context,
	ingestionID, filename string,
	forms []domain.FormSegment,
	texts []string,
) (*pipeline.Result, error) {
	result, err := r.inner.Run(ctx, ingestionID, filename, forms, texts)
	if err != nil {
		return nil, err
	}
	r.metrics.RecordStageRecords(r.service, "segments", result.Summary.TotalSegments)
	r.metrics.RecordStageRecords(r.service, "texts", result.Summary.TotalTextRecords)
	r.metrics.RecordStageRecords(r.service, "fields", result.Summary.TotalFields)
	r.metrics.ObserveSegments(r.service, result.Summary.TotalSegments)
	return result, nil
}

type instrumentedFallback struct {
	inner   ports.FallbackClassifier
	metrics *metrics.WorkerMetrics
	service string
}

func newInstrumentedFallback(inner ports.FallbackClassifier, m *metrics.WorkerMetrics, service string) ports.FallbackClassifier {
	return &instrumentedFallback{inner: inner, metrics: m, service: service}
}

func (f *instrumentedFallback) Classify(filename string) domain.ClassificationResult {
	f.metrics.RecordFallback(f.service)
	return f.inner.Classify(filename)
}
