package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iho/ctacte/internal/adapter/http/dto"
)

// apiError is a non-2xx API response.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api returned %d: %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Code)
}

type apiClient struct {
	http         *http.Client
	baseURL      string
	tenantHeader string
	tenant       string
}

func newAPIClient(baseURL, tenantHeader, tenant string, timeout time.Duration) *apiClient {
	return &apiClient{
		http:         &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(baseURL, "/"),
		tenantHeader: tenantHeader,
		tenant:       tenant,
	}
}

func (c *apiClient) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, nil, out)
}

func (c *apiClient) post(ctx context.Context, path string, body any, headers map[string]string, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, headers, out)
}

func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body any, headers map[string]string, out any) error {
	target := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tenant != "" {
		req.Header.Set(c.tenantHeader, c.tenant)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode, Code: http.StatusText(resp.StatusCode)}
		var errBody dto.ErrorResponse
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			apiErr.Code = errBody.Error
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
