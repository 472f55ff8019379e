package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bibbank/churn-service/internal/application/dto"
	"github.com/bibbank/churn-service/internal/domain/model"
)

const defaultTimeout = 10 * time.Second

// HTTPClient calls the REST surface.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the service at baseURL. A nil
// httpClient uses one with a default timeout.
func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Predict posts fields to /predict.
func (c *HTTPClient) Predict(ctx context.Context, fields model.RawRequest) (dto.PredictionResponse, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return dto.PredictionResponse{}, fmt.Errorf("encode request: %w", err)
	}

	var resp dto.PredictionResponse
	if err := c.do(ctx, http.MethodPost, "/predict", body, &resp); err != nil {
		return dto.PredictionResponse{}, err
	}
	return resp, nil
}

// Schema fetches /schema.
func (c *HTTPClient) Schema(ctx context.Context) (dto.SchemaResponse, error) {
	var resp dto.SchemaResponse
	if err := c.do(ctx, http.MethodGet, "/schema", nil, &resp); err != nil {
		return dto.SchemaResponse{}, err
	}
	return resp, nil
}

// Health fetches /healthz.
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// Close is a no-op; the underlying http.Client is shared.
func (c *HTTPClient) Close() error {
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.Status, Message: strings.TrimSpace(string(data))}
		var errResp dto.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			apiErr.Kind = errResp.Kind
			apiErr.Field = errResp.Field
			apiErr.Message = errResp.Error
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
