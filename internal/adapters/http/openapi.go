package httpadapter

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPIContract []byte

// ValidateContract compiles the embedded API contract. Run at startup so a
// malformed contract fails the boot instead of serving garbage.
func ValidateContract(ctx context.Context) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIContract)
	if err != nil {
		return fmt.Errorf("parse openapi contract: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("validate openapi contract: %w", err)
	}
	return nil
}

func (rt *Router) openAPIContract(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIContract)
}
