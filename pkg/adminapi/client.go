/*
Copyright 2024-2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package adminapi

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/kong/go-kong/kong"

	"github.com/unikorn-cloud/kong-lifecycle/pkg/config"
	"github.com/unikorn-cloud/kong-lifecycle/pkg/constants"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultDeleteTimeout  = 30 * time.Second

	// pageSize is the number of entities requested per list page.
	pageSize = 100

	// maxPages stops runaway pagination from a misbehaving server.
	maxPages = 1000
)

// Options configure a client.
type Options struct {
	BaseURL        string
	Workspace      string
	AdminToken     string
	RequestTimeout time.Duration
	DeleteTimeout  time.Duration
	LogRequests    bool
	LogResponses   bool

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
}

// OptionsFromConfig extracts client options from harness configuration.
func OptionsFromConfig(c *config.Config) Options {
	return Options{
		BaseURL:        c.AdminURL,
		Workspace:      c.Workspace,
		AdminToken:     c.AdminToken,
		RequestTimeout: c.RequestTimeout,
		DeleteTimeout:  c.DeleteTimeout,
		LogRequests:    c.LogRequests,
		LogResponses:   c.LogResponses,
	}
}

// Client talks to a Kong admin API.
type Client struct {
	baseURL   string
	client    *http.Client
	options   Options
	endpoints *Endpoints
}

// Ensure the interface is implemented.
var _ ClientInterface = &Client{}

// New returns a new client.
func New(options Options) *Client {
	client := options.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	if options.RequestTimeout <= 0 {
		options.RequestTimeout = defaultRequestTimeout
	}

	if options.DeleteTimeout <= 0 {
		options.DeleteTimeout = defaultDeleteTimeout
	}

	return &Client{
		baseURL:   strings.TrimSuffix(options.BaseURL, "/"),
		client:    client,
		options:   options,
		endpoints: NewEndpoints(options.Workspace),
	}
}

// NewFromConfig returns a new client configured from harness configuration.
func NewFromConfig(c *config.Config) *Client {
	return New(OptionsFromConfig(c))
}

// response is what remains of an HTTP response once the body is consumed.
type response struct {
	statusCode int
	body       []byte
	traceID    string
}

// apiError is the error body the admin API returns.
type apiError struct {
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// message extracts a human readable message from an error response.
func (r *response) message() string {
	var e apiError

	if err := json.Unmarshal(r.body, &e); err != nil || e.Message == "" {
		return string(r.body)
	}

	return e.Message
}

// generateTraceID creates a new W3C trace ID.
// A fresh ID per request means any failure can be located in the gateway logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// requestLogger scopes a logger to a single request.
func requestLogger(ctx context.Context, method, path, traceID string) logr.Logger {
	return log.FromContext(ctx).WithValues("method", method, "path", path, "traceID", traceID)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, timeout time.Duration) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	traceParent := createTraceParent()
	traceID := extractTraceID(traceParent)

	log := requestLogger(ctx, method, path, traceID)

	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation="+constants.Application)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.VersionString())

	if c.options.AdminToken != "" {
		req.Header.Set("Kong-Admin-Token", c.options.AdminToken)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Error(err, "http request failed", "duration", duration)
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(err, "reading response body", "status", resp.StatusCode)
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.options.LogRequests {
		log.Info("admin api request", "status", resp.StatusCode, "duration", duration)
	}

	if c.options.LogResponses && len(respBody) > 0 {
		log.Info("admin api response", "body", string(respBody))
	}

	return &response{
		statusCode: resp.StatusCode,
		body:       respBody,
		traceID:    traceID,
	}, nil
}

// unexpected logs and returns an error for a status an operation doesn't handle.
func (c *Client) unexpected(ctx context.Context, method, path string, r *response) error {
	requestLogger(ctx, method, path, r.traceID).Info("unexpected status", "status", r.statusCode, "body", string(r.body))

	return fmt.Errorf("%w: %d, body: %s (trace ID: %s)", ErrUnexpectedStatus, r.statusCode, string(r.body), r.traceID)
}

// create is a generic helper for create operations.
func create[T any](ctx context.Context, c *Client, kind Kind, path string, in T) (T, error) {
	var out T

	r, err := c.doRequest(ctx, http.MethodPost, path, in, c.options.RequestTimeout)
	if err != nil {
		return out, fmt.Errorf("creating %s: %w", kind, err)
	}

	switch r.statusCode {
	case http.StatusCreated:
		if err := json.Unmarshal(r.body, &out); err != nil {
			return out, fmt.Errorf("unmarshaling %s response: %w", kind, err)
		}

		return out, nil
	case http.StatusConflict:
		return out, fmt.Errorf("creating %s: %w: %s", kind, ErrConflict, r.message())
	case http.StatusNotFound:
		return out, fmt.Errorf("creating %s: %w: %s", kind, ErrNotFound, r.message())
	}

	return out, fmt.Errorf("creating %s: %w", kind, c.unexpected(ctx, http.MethodPost, path, r))
}

// get is a generic helper for read operations.
func get[T any](ctx context.Context, c *Client, kind Kind, path, nameOrID string) (T, error) {
	var out T

	r, err := c.doRequest(ctx, http.MethodGet, path, nil, c.options.RequestTimeout)
	if err != nil {
		return out, fmt.Errorf("getting %s: %w", kind, err)
	}

	switch r.statusCode {
	case http.StatusOK:
		if err := json.Unmarshal(r.body, &out); err != nil {
			return out, fmt.Errorf("unmarshaling %s response: %w", kind, err)
		}

		return out, nil
	case http.StatusNotFound:
		return out, fmt.Errorf("%w: %s '%s' (status: %d)", ErrNotFound, kind, nameOrID, r.statusCode)
	}

	return out, fmt.Errorf("getting %s: %w", kind, c.unexpected(ctx, http.MethodGet, path, r))
}

// list is a generic helper for list operations that follows pagination.
func list[T any](ctx context.Context, c *Client, kind Kind, path string) ([]T, error) {
	var result []T

	offset := ""

	for range maxPages {
		page := Page(path, pageSize, offset)

		r, err := c.doRequest(ctx, http.MethodGet, page, nil, c.options.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", kind, err)
		}

		if r.statusCode != http.StatusOK {
			return nil, fmt.Errorf("listing %s: %w", kind, c.unexpected(ctx, http.MethodGet, page, r))
		}

		var envelope listResponse[T]

		if err := json.Unmarshal(r.body, &envelope); err != nil {
			return nil, fmt.Errorf("unmarshaling %s response: %w", kind, err)
		}

		result = append(result, envelope.Data...)

		if envelope.Offset == "" || envelope.Next == nil {
			return result, nil
		}

		offset = envelope.Offset
	}

	return nil, fmt.Errorf("listing %s: %w: more than %d pages", kind, ErrUnexpectedStatus, maxPages)
}

// remove is a generic helper for delete operations.  Errors are only
// returned alongside OutcomeNeedsFallback.
func (c *Client) remove(ctx context.Context, kind Kind, path string) (DeleteOutcome, error) {
	r, err := c.doRequest(ctx, http.MethodDelete, path, nil, c.options.DeleteTimeout)
	if err != nil {
		return OutcomeNeedsFallback, fmt.Errorf("deleting %s: %w", kind, err)
	}

	switch r.statusCode {
	case http.StatusNoContent:
		return OutcomeDeleted, nil
	case http.StatusNotFound:
		return OutcomeNotFound, nil
	}

	return OutcomeNeedsFallback, fmt.Errorf("deleting %s: %w", kind, c.unexpected(ctx, http.MethodDelete, path, r))
}

// Ping checks the admin API is reachable and healthy.
func (c *Client) Ping(ctx context.Context) error {
	path := c.endpoints.Status()

	r, err := c.doRequest(ctx, http.MethodGet, path, nil, c.options.RequestTimeout)
	if err != nil {
		return fmt.Errorf("checking status: %w", err)
	}

	if r.statusCode != http.StatusOK {
		return fmt.Errorf("checking status: %w", c.unexpected(ctx, http.MethodGet, path, r))
	}

	return nil
}

// CreateService creates a new service.
func (c *Client) CreateService(ctx context.Context, service *kong.Service) (*kong.Service, error) {
	return create(ctx, c, KindService, c.endpoints.Services(), service)
}

// GetService retrieves a service by name or ID.
func (c *Client) GetService(ctx context.Context, nameOrID string) (*kong.Service, error) {
	return get[*kong.Service](ctx, c, KindService, c.endpoints.Service(nameOrID), nameOrID)
}

// ListServices lists every service, across all pages.
func (c *Client) ListServices(ctx context.Context) ([]*kong.Service, error) {
	return list[*kong.Service](ctx, c, KindService, c.endpoints.Services())
}

// DeleteService deletes a service by name or ID.
func (c *Client) DeleteService(ctx context.Context, nameOrID string) (DeleteOutcome, error) {
	return c.remove(ctx, KindService, c.endpoints.Service(nameOrID))
}

// CreateRoute creates a new route owned by the named service.
func (c *Client) CreateRoute(ctx context.Context, serviceNameOrID string, route *kong.Route) (*kong.Route, error) {
	return create(ctx, c, KindRoute, c.endpoints.ServiceRoutes(serviceNameOrID), route)
}

// GetRoute retrieves a route by name or ID.
func (c *Client) GetRoute(ctx context.Context, nameOrID string) (*kong.Route, error) {
	return get[*kong.Route](ctx, c, KindRoute, c.endpoints.Route(nameOrID), nameOrID)
}

// ListRoutes lists every route, across all pages.
func (c *Client) ListRoutes(ctx context.Context) ([]*kong.Route, error) {
	return list[*kong.Route](ctx, c, KindRoute, c.endpoints.Routes())
}

// DeleteRoute deletes a route by name or ID.
func (c *Client) DeleteRoute(ctx context.Context, nameOrID string) (DeleteOutcome, error) {
	return c.remove(ctx, KindRoute, c.endpoints.Route(nameOrID))
}
