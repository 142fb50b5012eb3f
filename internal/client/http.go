package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hsuehlab/shopline-middleware/internal/model"
)

// HTTPClient implements Client using the platform's HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:3001"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Events ---

func (c *HTTPClient) PublishEvent(ctx context.Context, req *PublishEventRequest) (*model.Event, error) {
	var event model.Event
	if err := c.doJSON(ctx, http.MethodPost, "/api/events/publish", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, req *ListEventsRequest) (*model.EventPage, error) {
	q := url.Values{}
	if req.Page > 0 {
		q.Set("page", fmt.Sprintf("%d", req.Page))
	}
	if req.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", req.Limit))
	}
	if req.Type != "" {
		q.Set("type", req.Type)
	}
	if req.Source != "" {
		q.Set("source", req.Source)
	}

	path := "/api/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page model.EventPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *HTTPClient) EventStats(ctx context.Context) (*model.EventStats, error) {
	var stats model.EventStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/events/stats/summary", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// --- Shopline proxy ---

func (c *HTTPClient) Shop(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/shopline/shop", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *HTTPClient) Products(ctx context.Context, req *ListUpstreamRequest) (json.RawMessage, error) {
	return c.listUpstream(ctx, "/api/shopline/products", req)
}

func (c *HTTPClient) Orders(ctx context.Context, req *ListUpstreamRequest) (json.RawMessage, error) {
	return c.listUpstream(ctx, "/api/shopline/orders", req)
}

func (c *HTTPClient) listUpstream(ctx context.Context, path string, req *ListUpstreamRequest) (json.RawMessage, error) {
	q := url.Values{}
	if req != nil {
		if req.Page > 0 {
			q.Set("page", fmt.Sprintf("%d", req.Page))
		}
		if req.Limit > 0 {
			q.Set("limit", fmt.Sprintf("%d", req.Limit))
		}
		if req.Status != "" {
			q.Set("status", req.Status)
		}
	}
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// --- Health ---

// Health fetches GET /health, which is not wrapped in the API envelope.
func (c *HTTPClient) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: err.Error()}
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var health HealthStatus
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decoding health: %v", err)}
	}
	return &health, nil
}

// --- internal helpers ---

// APIError represents a failed call: an error envelope from the server, a
// transport failure (StatusCode 0), or an undecodable body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return "request failed: " + e.Message
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// envelope is the platform's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// doJSON performs an HTTP request with optional JSON body, unwraps the
// response envelope, and decodes its data into result. All failure modes
// are normalized into *APIError.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{StatusCode: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if resp.StatusCode >= 400 || !env.Success {
		msg := env.Error
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decoding response: %v", err)}
		}
	}

	return nil
}
