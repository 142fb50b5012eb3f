// Package server exposes the middleware platform's HTTP API: event
// ingestion and query, health introspection, and the Shopline proxy routes.
package server

import (
	"log/slog"
	"time"

	"github.com/hsuehlab/shopline-middleware/internal/service"
	"github.com/hsuehlab/shopline-middleware/internal/shopline"
)

// Version is the API version reported by the status and health routes.
const Version = "1.0.0"

// Options carries the server's static identity and middleware settings.
type Options struct {
	// Environment is reported by health routes and controls whether
	// internal error detail reaches clients ("development" does).
	Environment string

	// AuthToken enables bearer auth on /api routes when non-empty.
	AuthToken string

	// AllowedOrigins is the CORS allowlist. Empty disables CORS headers.
	AllowedOrigins []string

	// RateLimit is the sustained per-client request rate (requests/second);
	// 0 disables rate limiting. RateBurst is the allowed burst size.
	RateLimit float64
	RateBurst int

	// EventsEnabled reports whether the NATS fan-out is configured; the
	// detailed health route surfaces it.
	EventsEnabled bool
}

// Server handles HTTP requests. Construct it with New and mount Handler.
type Server struct {
	service  *service.EventService
	shopline *shopline.Client
	logger   *slog.Logger
	opts     Options
	started  time.Time
}

// New returns a Server backed by the given event service and Shopline client.
func New(svc *service.EventService, shop *shopline.Client, logger *slog.Logger, opts Options) *Server {
	return &Server{
		service:  svc,
		shopline: shop,
		logger:   logger,
		opts:     opts,
		started:  time.Now(),
	}
}

// internalMessage hides store-level error detail outside development.
func (s *Server) internalMessage(err error) string {
	if s.opts.Environment == "development" {
		return err.Error()
	}
	return "internal server error"
}
