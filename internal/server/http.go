package server

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns an http.Handler with all routes registered and the
// middleware chain applied. Requests flow through the request logger, CORS,
// rate limiting, and bearer auth before reaching the mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/events/publish", s.handlePublishEvent)
	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.HandleFunc("GET /api/events/stats/summary", s.handleEventStats)
	mux.HandleFunc("GET /api/shopline/shop", s.handleShoplineShop)
	mux.HandleFunc("GET /api/shopline/products", s.handleShoplineProducts)
	mux.HandleFunc("GET /api/shopline/orders", s.handleShoplineOrders)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/detailed", s.handleHealthDetailed)
	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = mux
	h = AuthMiddleware(s.opts.AuthToken, h)
	h = RateLimitMiddleware(s.opts.RateLimit, s.opts.RateBurst, h)
	h = CORSMiddleware(s.opts.AllowedOrigins, h)
	h = RequestLogger(s.logger, h)
	return h
}

// apiResponse is the uniform envelope returned by all /api routes.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeData writes a success envelope.
func writeData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, apiResponse{Success: true, Data: data, Message: message})
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Error: message})
}

// handleStatus handles GET /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Shopline Middleware Platform API",
		"version": Version,
		"status":  "running",
	})
}
