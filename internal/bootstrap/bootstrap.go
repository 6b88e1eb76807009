package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tradefin-labs/formflow/internal/config"
	"github.com/tradefin-labs/formflow/internal/core/ports"
	"github.com/tradefin-labs/formflow/internal/core/usecase"
	"github.com/tradefin-labs/formflow/internal/detect"
	"github.com/tradefin-labs/formflow/internal/docintel"
	"github.com/tradefin-labs/formflow/internal/extract"
	"github.com/tradefin-labs/formflow/internal/infrastructure/extractor/doctext"
	"github.com/tradefin-labs/formflow/internal/infrastructure/queue/nats"
	"github.com/tradefin-labs/formflow/internal/infrastructure/repository/postgres"
	"github.com/tradefin-labs/formflow/internal/infrastructure/resilience"
	"github.com/tradefin-labs/formflow/internal/infrastructure/storage/localfs"
	"github.com/tradefin-labs/formflow/internal/observability/logging"
	"github.com/tradefin-labs/formflow/internal/observability/metrics"
	"github.com/tradefin-labs/formflow/internal/pipeline"
	"github.com/tradefin-labs/formflow/internal/status"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue   ports.MessageQueue
	Repo    ports.IngestionRepository
	Tracker *status.Tracker

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.IngestionProcessor
	QueryUC   ports.IngestionQueryService

	HTTPMetrics   *metrics.HTTPServerMetrics
	WorkerMetrics *metrics.WorkerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	logger := logging.NewJSONLogger(service, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	repo := postgres.NewIngestionRepository(db)
	segmentRepo := postgres.NewSegmentRepository(db)
	textRepo := postgres.NewTextRepository(db)
	fieldRepo := postgres.NewFieldRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"ingestions":     repo.EnsureSchema,
		"form_segments":  segmentRepo.EnsureSchema,
		"segment_texts":  textRepo.EnsureSchema,
		"segment_fields": fieldRepo.EnsureSchema,
	} {
		if err := ensure(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure %s schema: %w", name, err)
		}
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	analysisClient := docintel.NewClient(cfg.DocIntelURL, cfg.DocIntelAPIKey, docintel.Options{
		Timeout:            time.Duration(cfg.DocIntelTimeoutSeconds) * time.Second,
		PollInterval:       time.Duration(cfg.DocIntelPollIntervalMS) * time.Millisecond,
		ResilienceExecutor: executor,
	})
	analyzer := docintel.NewAnalyzer(analysisClient)

	workerMetrics := metrics.NewWorkerMetrics(service)
	fallback := newInstrumentedFallback(docintel.NewFallback(), workerMetrics, service)

	ruleset, err := loadRuleset(cfg.RulesetPath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, err
	}
	detector := detect.NewDetector(ruleset)

	tracker := status.NewTracker()
	textExtractor := doctext.NewExtractor(storage)
	orchestrator := pipeline.NewOrchestrator(segmentRepo, textRepo, fieldRepo, extract.DefaultExtractor(), logger)
	runner := newInstrumentedRunner(orchestrator, workerMetrics, service)

	ingestUC := usecase.NewIngestUseCase(repo, storage, queue, tracker)
	processUC := usecase.NewProcessIngestionUseCase(
		repo, storage, textExtractor, analyzer, fallback, detector, runner, tracker, logger,
	)
	queryUC := usecase.NewQueryIngestionUseCase(repo, segmentRepo, textRepo, fieldRepo, tracker)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Queue:   queue,
		Repo:    repo,
		Tracker: tracker,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		QueryUC:   queryUC,

		HTTPMetrics:   metrics.NewHTTPServerMetrics(service),
		WorkerMetrics: workerMetrics,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func loadRuleset(path string) (*detect.Ruleset, error) {
	if path == "" {
		return detect.DefaultRuleset(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ruleset %s: %w", path, err)
	}
	defer f.Close()
	ruleset, err := detect.LoadRuleset(f)
	if err != nil {
		return nil, fmt.Errorf("load ruleset %s: %w", path, err)
	}
	return ruleset, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
