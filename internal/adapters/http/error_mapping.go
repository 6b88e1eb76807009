package httpadapter

import (
	"net/http"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrIngestionNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrAnalysisUnavailable), domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
