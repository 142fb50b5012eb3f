// Package client provides a transport-agnostic interface for the middleware
// platform and an HTTP/JSON implementation that speaks its response envelope.
package client

import (
	"context"
	"encoding/json"

	"github.com/hsuehlab/shopline-middleware/internal/model"
)

// Client is the interface all middleware consumers (the CLI, the dashboard)
// use to talk to the platform. It is implemented by HTTPClient and can be
// backed by any transport. Every failure, whether validation, transport, or
// a malformed body, surfaces as an error; successful calls return the
// envelope's data already decoded.
type Client interface {
	// Events
	PublishEvent(ctx context.Context, req *PublishEventRequest) (*model.Event, error)
	ListEvents(ctx context.Context, req *ListEventsRequest) (*model.EventPage, error)
	EventStats(ctx context.Context) (*model.EventStats, error)

	// Shopline proxy
	Shop(ctx context.Context) (json.RawMessage, error)
	Products(ctx context.Context, req *ListUpstreamRequest) (json.RawMessage, error)
	Orders(ctx context.Context, req *ListUpstreamRequest) (json.RawMessage, error)

	// Health
	Health(ctx context.Context) (*HealthStatus, error)

	// Lifecycle
	Close() error
}

// PublishEventRequest holds parameters for publishing an event.
type PublishEventRequest struct {
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// ListEventsRequest holds parameters for listing events.
// Zero-valued fields are omitted from the query string.
type ListEventsRequest struct {
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// ListUpstreamRequest holds paging/filter parameters for the proxied
// Shopline listings.
type ListUpstreamRequest struct {
	Page   int    `json:"page,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Status string `json:"status,omitempty"`
}

// HealthStatus is the platform's health report.
type HealthStatus struct {
	Status      string  `json:"status"`
	Uptime      float64 `json:"uptime"`
	Version     string  `json:"version"`
	Environment string  `json:"environment"`
}
