package docintel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tradefin-labs/formflow/internal/infrastructure/resilience"
)

// Client talks to the remote document-analysis service: submit a file for a
// given analysis model, then poll the returned operation until it finishes.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	executor     *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	PollInterval       time.Duration
	ResilienceExecutor *resilience.Executor
}

func NewClient(baseURL, apiKey string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	pollInterval := options.PollInterval
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: timeout},
		pollInterval: pollInterval,
		executor:     options.ResilienceExecutor,
	}
}

// KeyValuePair is one key/value the service read off the document.
type KeyValuePair struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Confidence int    `json:"confidence"`
}

type TableCell struct {
	Content     string `json:"content"`
	RowIndex    int    `json:"rowIndex"`
	ColumnIndex int    `json:"columnIndex"`
}

type Table struct {
	Cells []TableCell `json:"cells"`
}

// AnalyzeResult is the service's completed analysis. The service reports
// confidence as a 0-100 integer; callers convert at their boundary.
type AnalyzeResult struct {
	DocumentType  string         `json:"documentType"`
	Confidence    int            `json:"confidence"`
	Content       string         `json:"content"`
	KeyValuePairs []KeyValuePair `json:"keyValuePairs"`
	Tables        []Table        `json:"tables"`
}

type operationStatus struct {
	Status        string         `json:"status"`
	Error         string         `json:"error,omitempty"`
	AnalyzeResult *AnalyzeResult `json:"analyzeResult,omitempty"`
}

// Analyze submits content under the given model and polls to completion.
// The submit call goes through the resilience executor when one is
// configured; polling is bounded only by ctx and the client timeout.
func (c *Client) Analyze(ctx context.Context, model string, content io.Reader) (*AnalyzeResult, error) {
	raw, err := io.ReadAll(content)
	if err != nil {
		return nil, fmt.Errorf("read document content: %w", err)
	}

	var operationURL string
	submit := func(ctx context.Context) error {
		url, err := c.submit(ctx, model, raw)
		if err != nil {
			return err
		}
		operationURL = url
		return nil
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "docintel.analyze", submit, classifyAnalysisError)
	} else {
		err = submit(ctx)
	}
	if err != nil {
		return nil, err
	}

	return c.poll(ctx, operationURL)
}

func (c *Client) submit(ctx context.Context, model string, raw []byte) (string, error) {
	url := fmt.Sprintf("%s/documentModels/%s:analyze", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(raw)))
	if err != nil {
		return "", fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("analysis submit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return "", newHTTPStatusError("submit", resp)
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", fmt.Errorf("analysis submit: missing Operation-Location header")
	}
	return operationURL, nil
}

func (c *Client) poll(ctx context.Context, operationURL string) (*AnalyzeResult, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.operationStatus(ctx, operationURL)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case "succeeded":
			if status.AnalyzeResult == nil {
				return nil, fmt.Errorf("analysis succeeded without a result")
			}
			return status.AnalyzeResult, nil
		case "failed":
			return nil, fmt.Errorf("analysis failed: %s", status.Error)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) operationStatus(ctx context.Context, operationURL string) (*operationStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create poll request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis poll request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, newHTTPStatusError("poll", resp)
	}

	var status operationStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}
	return &status, nil
}
