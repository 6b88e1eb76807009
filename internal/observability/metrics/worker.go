package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	processTotal    *prometheus.CounterVec
	processDuration *prometheus.HistogramVec
	processInFlight prometheus.Gauge
	queueLag        *prometheus.HistogramVec

	stageRecordsTotal    *prometheus.CounterVec
	segmentsPerIngestion *prometheus.HistogramVec
	fallbackTotal        *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	processTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "formflow",
			Subsystem: "worker",
			Name:      "ingestion_process_total",
			Help:      "Total processed ingestions by status.",
		},
		[]string{"service", "status"},
	)
	processDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "formflow",
			Subsystem: "worker",
			Name:      "ingestion_process_duration_seconds",
			Help:      "Ingestion processing duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	processInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "formflow",
			Subsystem: "worker",
			Name:      "ingestion_process_in_flight",
			Help:      "Number of in-flight ingestion processing tasks.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "formflow",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between ingestion creation and processing start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	stageRecordsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "formflow",
			Subsystem: "pipeline",
			Name:      "records_total",
			Help:      "Total persisted records by pipeline stage.",
		},
		[]string{"service", "stage"},
	)
	segmentsPerIngestion := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "formflow",
			Subsystem: "pipeline",
			Name:      "segments_per_ingestion",
			Help:      "Distribution of detected form segments per ingestion.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	fallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "formflow",
			Subsystem: "pipeline",
			Name:      "classification_fallback_total",
			Help:      "Total ingestions classified by the filename fallback.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		processTotal,
		processDuration,
		processInFlight,
		queueLag,
		stageRecordsTotal,
		segmentsPerIngestion,
		fallbackTotal,
	)

	return &WorkerMetrics{
		registry:             registry,
		processTotal:         processTotal,
		processDuration:      processDuration,
		processInFlight:      processInFlight,
		queueLag:             queueLag,
		stageRecordsTotal:    stageRecordsTotal,
		segmentsPerIngestion: segmentsPerIngestion,
		fallbackTotal:        fallbackTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartIngestion() {
	m.processInFlight.Inc()
}

func (m *WorkerMetrics) FinishIngestion(service string, duration time.Duration, err error) {
	m.processInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.processTotal.WithLabelValues(service, status).Inc()
	m.processDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordStageRecords(service, stage string, count int) {
	if count <= 0 {
		return
	}
	m.stageRecordsTotal.WithLabelValues(service, stage).Add(float64(count))
}

func (m *WorkerMetrics) ObserveSegments(service string, count int) {
	m.segmentsPerIngestion.WithLabelValues(service).Observe(float64(count))
}

func (m *WorkerMetrics) RecordFallback(service string) {
	m.fallbackTotal.WithLabelValues(service).Inc()
}
