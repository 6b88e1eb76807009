package docintel

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tradefin-labs/formflow/internal/core/domain"
)

func newAnalysisServer(t *testing.T, pollsBeforeDone int32, result string) *httptest.Server {
	t.Helper()
	var polls atomic.Int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
				http.Error(w, "missing key", http.StatusUnauthorized)
				return
			}
			w.Header().Set("Operation-Location", server.URL+"/operations/op-1")
			w.WriteHeader(http.StatusAccepted)
		case r.Method == http.MethodGet && r.URL.Path == "/operations/op-1":
			if polls.Add(1) <= pollsBeforeDone {
				_, _ = w.Write([]byte(`{"status":"running"}`))
				return
			}
			_, _ = w.Write([]byte(result))
		default:
			http.NotFound(w, r)
		}
	}))
	return server
}

func TestClientAnalyzeSubmitsAndPolls(t *testing.T) {
	result := `{"status":"succeeded","analyzeResult":{"documentType":"invoice","confidence":87,"content":"full text","keyValuePairs":[{"key":"InvoiceId","value":"INV-100","confidence":90}]}}`
	server := newAnalysisServer(t, 2, result)
	defer server.Close()

	client := NewClient(server.URL, "test-key", Options{PollInterval: time.Millisecond})
	got, err := client.Analyze(context.Background(), ModelInvoice, bytes.NewReader([]byte("%PDF-1.4")))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.DocumentType != "invoice" || got.Confidence != 87 {
		t.Fatalf("result = %+v", got)
	}
	if len(got.KeyValuePairs) != 1 || got.KeyValuePairs[0].Value != "INV-100" {
		t.Fatalf("key/value pairs = %+v", got.KeyValuePairs)
	}
}

func TestClientAnalyzeReportsRemoteFailure(t *testing.T) {
	result := `{"status":"failed","error":"content unreadable"}`
	server := newAnalysisServer(t, 0, result)
	defer server.Close()

	client := NewClient(server.URL, "test-key", Options{PollInterval: time.Millisecond})
	_, err := client.Analyze(context.Background(), ModelGeneral, strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "content unreadable") {
		t.Fatalf("err = %v, want remote failure message", err)
	}
}

func TestAnalyzerMapsServiceVocabulary(t *testing.T) {
	result := `{"status":"succeeded","analyzeResult":{"documentType":"billOfLading","confidence":92,"keyValuePairs":[{"key":"VesselName","value":"MV Star","confidence":88}],"tables":[{"cells":[{"content":"Qty","rowIndex":0,"columnIndex":0}]}]}}`
	server := newAnalysisServer(t, 0, result)
	defer server.Close()

	analyzer := NewAnalyzer(NewClient(server.URL, "test-key", Options{PollInterval: time.Millisecond}))
	got, err := analyzer.Analyze(context.Background(), strings.NewReader("x"), "bill_of_lading.pdf")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Type != domain.TypeBillOfLading {
		t.Errorf("Type = %q, want %q", got.Type, domain.TypeBillOfLading)
	}
	if got.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", got.Confidence)
	}
	if got.Method != MethodRemoteAnalysis || got.Model != ModelLayout {
		t.Errorf("Method/Model = %q/%q", got.Method, got.Model)
	}
	if got.Fields["VesselName"] != "MV Star" {
		t.Errorf("VesselName = %q", got.Fields["VesselName"])
	}
	if table := got.Fields["table_0"]; !strings.Contains(table, `"content":"Qty"`) {
		t.Errorf("table_0 = %q, want serialized cells", table)
	}
}

func TestAnalyzerUnmappedTypeIsUnknown(t *testing.T) {
	result := `{"status":"succeeded","analyzeResult":{"documentType":"taxForm","confidence":75}}`
	server := newAnalysisServer(t, 0, result)
	defer server.Close()

	analyzer := NewAnalyzer(NewClient(server.URL, "test-key", Options{PollInterval: time.Millisecond}))
	got, err := analyzer.Analyze(context.Background(), strings.NewReader("x"), "scan.pdf")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Type != domain.TypeUnknown {
		t.Errorf("Type = %q, want %q", got.Type, domain.TypeUnknown)
	}
}

func TestAnalyzerWrapsServiceOutage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	analyzer := NewAnalyzer(NewClient(server.URL, "test-key", Options{PollInterval: time.Millisecond}))
	_, err := analyzer.Analyze(context.Background(), strings.NewReader("x"), "scan.pdf")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrAnalysisUnavailable) {
		t.Fatalf("err = %v, want analysis unavailable kind", err)
	}
}

func TestSelectModel(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"commercial_invoice_jan.pdf", ModelInvoice},
		{"store-receipt.jpg", ModelReceipt},
		{"passport_scan.png", ModelIDDocument},
		{"business_card.jpg", ModelBusinessCard},
		{"bill_of_lading.pdf", ModelLayout},
		{"packing-list.pdf", ModelLayout},
		{"cargo_manifest.pdf", ModelLayout},
		{"notes.txt", ModelGeneral},
	}
	for _, tt := range tests {
		if got := SelectModel(tt.filename); got != tt.want {
			t.Errorf("SelectModel(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestFallbackClassify(t *testing.T) {
	fb := NewFallback()

	tests := []struct {
		filename       string
		wantType       domain.DocumentType
		wantConfidence float64
	}{
		{"invoice_2025.pdf", domain.TypeCommercialInvoice, 0.75},
		{"bill_of_lading.pdf", domain.TypeBillOfLading, 0.75},
		{"packing_list.xlsx", domain.TypePackingList, 0.75},
		{"insurance_cert.pdf", domain.TypeInsuranceCertificate, 0.75},
		{"scan001.pdf", domain.TypeUnknown, 0.60},
		{"", domain.TypeUnknown, 0.60},
	}
	for _, tt := range tests {
		got := fb.Classify(tt.filename)
		if got.Type != tt.wantType || got.Confidence != tt.wantConfidence {
			t.Errorf("Classify(%q) = %q/%v, want %q/%v", tt.filename, got.Type, got.Confidence, tt.wantType, tt.wantConfidence)
		}
		if got.Method != MethodFilenameFallback {
			t.Errorf("Classify(%q).Method = %q", tt.filename, got.Method)
		}
		if got.Fields == nil {
			t.Errorf("Classify(%q).Fields is nil", tt.filename)
		}
	}
}
