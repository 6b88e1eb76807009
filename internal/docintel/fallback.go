package docintel

import (
	"path/filepath"
	"strings"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

// MethodFilenameFallback marks classification results produced from the
// filename alone when the analysis service is unreachable.
const MethodFilenameFallback = "filename_fallback"

const (
	fallbackBaseConfidence  = 0.60
	fallbackMatchConfidence = 0.75
)

var filenameTypeHints = []struct {
	docType  domain.DocumentType
	keywords []string
}{
	{domain.TypeCommercialInvoice, []string{"invoice"}},
	{domain.TypeBillOfLading, []string{"lading", "b-l", "b_l", "bol"}},
	{domain.TypeCertificateOfOrigin, []string{"origin", "certificate"}},
	{domain.TypePackingList, []string{"packing"}},
	{domain.TypeLCDocument, []string{"credit", "lc-", "lc_"}},
	{domain.TypeInsuranceCertificate, []string{"insurance"}},
	{domain.TypeBillOfExchange, []string{"exchange", "draft"}},
}

// Fallback classifies by filename keywords only. It never fails and never
// touches the network, so it is safe to call when the analysis service is
// down.
type Fallback struct{}

func NewFallback() Fallback {
	return Fallback{}
}

func (Fallback) Classify(filename string) domain.ClassificationResult {
	name := strings.ToLower(filepath.Base(filename))
	result := domain.ClassificationResult{
		Type:       domain.TypeUnknown,
		Confidence: fallbackBaseConfidence,
		Fields:     map[string]string{},
		Method:     MethodFilenameFallback,
	}
	for _, hint := range filenameTypeHints {
		for _, keyword := range hint.keywords {
			if strings.Contains(name, keyword) {
				result.Type = hint.docType
				result.Confidence = fallbackMatchConfidence
				return result
			}
		}
	}
	return result
}
