// Package shopline is a thin typed client for the commerce platform's REST
// API. The platform proxies a read-only subset of it; responses are passed
// through verbatim. Token acquisition and refresh belong to the external auth
// subsystem; callers supply a ready bearer token per request.
package shopline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client issues authenticated requests against the Shopline open API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client targeting the given base URL (e.g.
// "https://open.shopline.io").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// UpstreamError is a non-2xx response from the commerce platform.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("shopline: HTTP %d: %s", e.StatusCode, e.Body)
}

// ListParams are the paging/filter parameters shared by the product and order
// listings. Unset fields are omitted from the query string.
type ListParams struct {
	Page   int
	Limit  int
	Status string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", fmt.Sprintf("%d", p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", p.Limit))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	return q
}

// Shop fetches the merchant's shop profile.
func (c *Client) Shop(ctx context.Context, token string) (json.RawMessage, error) {
	return c.get(ctx, "/v1/shop", token, nil)
}

// Products lists products.
func (c *Client) Products(ctx context.Context, token string, params ListParams) (json.RawMessage, error) {
	return c.get(ctx, "/v1/products", token, params.values())
}

// Orders lists orders.
func (c *Client) Orders(ctx context.Context, token string, params ListParams) (json.RawMessage, error) {
	return c.get(ctx, "/v1/orders", token, params.values())
}

func (c *Client) get(ctx context.Context, path, token string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return json.RawMessage(body), nil
}
