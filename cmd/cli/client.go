package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/iho/caja/internal/adapter/http/dto"
	"github.com/iho/caja/internal/adapter/http/middleware"
)

// apiClient calls the caja HTTP API. Every POST carries a fresh Idempotency-Key.
type apiClient struct {
	baseURL string
	http    *http.Client
	newKey  func() string
}

func newAPIClient(opts *rootOptions) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(opts.baseURL, "/"),
		http:    &http.Client{Timeout: opts.timeout},
		newKey:  uuid.NewString,
	}
}

type apiError struct {
	Status   int
	Response dto.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Response.Message != "" {
		return fmt.Sprintf("%s (%d): %s", e.Response.Error, e.Status, e.Response.Message)
	}
	return fmt.Sprintf("%s (%d)", e.Response.Error, e.Status)
}

func (c *apiClient) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *apiClient) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *apiClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set(middleware.IdempotencyKeyHeader, c.newKey())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr.Response); err != nil || apiErr.Response.Error == "" {
			apiErr.Response.Error = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
