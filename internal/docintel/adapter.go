package docintel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

// MethodRemoteAnalysis marks classification results produced by the
// document-analysis service.
const MethodRemoteAnalysis = "remote_analysis"

// Analysis model identifiers understood by the service.
const (
	ModelInvoice      = "prebuilt-invoice"
	ModelReceipt      = "prebuilt-receipt"
	ModelIDDocument   = "prebuilt-idDocument"
	ModelBusinessCard = "prebuilt-businessCard"
	ModelLayout       = "prebuilt-layout"
	ModelGeneral      = "prebuilt-document"
)

// SelectModel picks the analysis model from filename hints. Trade documents
// without a dedicated model go through the layout model so tables survive.
func SelectModel(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	switch {
	case containsAny(name, "invoice", "commercial"):
		return ModelInvoice
	case strings.Contains(name, "receipt"):
		return ModelReceipt
	case containsAny(name, "passport", "license", "idcard", "id_card", "id-card"):
		return ModelIDDocument
	case containsAny(name, "businesscard", "business_card", "business-card"):
		return ModelBusinessCard
	case containsAny(name, "lading", "certificate", "origin", "packing", "manifest", "bill"):
		return ModelLayout
	default:
		return ModelGeneral
	}
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// serviceTypeMapping translates the service's document-type vocabulary to
// trade-finance types. Anything unmapped is an unknown document.
var serviceTypeMapping = map[string]domain.DocumentType{
	"invoice":              domain.TypeCommercialInvoice,
	"commercialInvoice":    domain.TypeCommercialInvoice,
	"billOfLading":         domain.TypeBillOfLading,
	"certificateOfOrigin":  domain.TypeCertificateOfOrigin,
	"packingList":          domain.TypePackingList,
	"letterOfCredit":       domain.TypeLCDocument,
	"documentaryCredit":    domain.TypeLCDocument,
	"insuranceCertificate": domain.TypeInsuranceCertificate,
	"billOfExchange":       domain.TypeBillOfExchange,
}

// Analyzer adapts the analysis client to the classification port: it maps
// the service's type vocabulary, flattens key/value pairs and tables into a
// field map, and converts 0-100 confidence to the 0.0-1.0 scale used
// everywhere else.
type Analyzer struct {
	client *Client
}

func NewAnalyzer(client *Client) *Analyzer {
	return &Analyzer{client: client}
}

func (a *Analyzer) Analyze(ctx context.Context, content io.Reader, filename string) (domain.ClassificationResult, error) {
	model := SelectModel(filename)
	start := time.Now()

	result, err := a.client.Analyze(ctx, model, content)
	if err != nil {
		return domain.ClassificationResult{}, wrapUnavailableIfNeeded("docintel.analyze", err)
	}

	docType, ok := serviceTypeMapping[result.DocumentType]
	if !ok {
		docType = domain.TypeUnknown
	}

	fields := make(map[string]string, len(result.KeyValuePairs)+len(result.Tables))
	for _, pair := range result.KeyValuePairs {
		key := strings.TrimSpace(pair.Key)
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(pair.Value)
	}
	for i, table := range result.Tables {
		encoded, err := json.Marshal(table.Cells)
		if err != nil {
			continue
		}
		fields[fmt.Sprintf("table_%d", i)] = string(encoded)
	}

	confidence := float64(result.Confidence) / 100.0
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return domain.ClassificationResult{
		Type:       docType,
		Confidence: confidence,
		Fields:     fields,
		Method:     MethodRemoteAnalysis,
		Model:      model,
		Elapsed:    time.Since(start),
	}, nil
}
