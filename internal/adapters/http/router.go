package httpadapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/ports"
	"github.com/tradefin-labs/formflow/internal/export"
	"github.com/tradefin-labs/formflow/internal/observability/metrics"
)

type Limits struct {
	RateLimitRPS   int
	RateLimitBurst int
	MaxInFlight    int
	QueueWait      time.Duration
}

type Router struct {
	ingestUC ports.DocumentIngestor
	queryUC  ports.IngestionQueryService
	metrics  *metrics.HTTPServerMetrics
	service  string
	limits   Limits
}

func NewRouter(
	ingestUC ports.DocumentIngestor,
	queryUC ports.IngestionQueryService,
	serverMetrics *metrics.HTTPServerMetrics,
	service string,
	limits Limits,
) *Router {
	return &Router{
		ingestUC: ingestUC,
		queryUC:  queryUC,
		metrics:  serverMetrics,
		service:  service,
		limits:   limits,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPIContract)
	mux.HandleFunc("POST /v1/ingestions", rt.uploadIngestion)
	mux.HandleFunc("GET /v1/ingestions/{id}", rt.getIngestion)
	mux.HandleFunc("GET /v1/ingestions/{id}/status", rt.getStatus)
	mux.HandleFunc("GET /v1/ingestions/{id}/segments", rt.getSegments)
	mux.HandleFunc("GET /v1/ingestions/{id}/texts", rt.getTexts)
	mux.HandleFunc("GET /v1/ingestions/{id}/fields", rt.getFields)
	mux.HandleFunc("GET /v1/ingestions/{id}/export", rt.exportWorkbook)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.limits.MaxInFlight, rt.limits.QueueWait)
	handler = rateLimitMiddleware(handler, rt.limits.RateLimitRPS, rt.limits.RateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadIngestion(w http.ResponseWriter, r *http.Request) {
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		rt.recordUpload("rejected", 0)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	ing, err := rt.ingestUC.Upload(r.Context(), fileHeader.Filename, mimeType, fileHeader.Size, file)
	if err != nil {
		rt.recordUpload("failed", 0)
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	rt.recordUpload("accepted", ing.SizeBytes)
	writeJSON(w, http.StatusAccepted, ing)
}

func (rt *Router) getIngestion(w http.ResponseWriter, r *http.Request) {
	ing, err := rt.queryUC.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ing)
}

func (rt *Router) getStatus(w http.ResponseWriter, r *http.Request) {
	snapshot, err := rt.queryUC.Status(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"steps": snapshot})
}

func (rt *Router) getSegments(w http.ResponseWriter, r *http.Request) {
	segments, err := rt.queryUC.Segments(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"segments": segments})
}

func (rt *Router) getTexts(w http.ResponseWriter, r *http.Request) {
	records, err := rt.queryUC.Texts(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"texts": records})
}

func (rt *Router) getFields(w http.ResponseWriter, r *http.Request) {
	records, err := rt.queryUC.Fields(r.Context(), r.PathValue("id"))
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": records})
}

func (rt *Router) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	ing, segments, fields, err := rt.queryUC.ExportData(r.Context(), r.PathValue("id"))
	if err != nil {
		rt.recordExport("failed")
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ing.ID+".xlsx"))
	if err := export.WriteWorkbook(w, ing, segments, fields); err != nil {
		rt.recordExport("failed")
		// Headers are already out; all we can do is log through the
		// access middleware's status and drop the connection state.
		return
	}
	rt.recordExport("ok")
}

func (rt *Router) recordUpload(status string, sizeBytes int64) {
	if rt.metrics != nil {
		rt.metrics.RecordUpload(rt.service, status, sizeBytes)
	}
}

func (rt *Router) recordExport(status string) {
	if rt.metrics != nil {
		rt.metrics.RecordExport(rt.service, status)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
