package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthMemory struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	NumGC      uint32 `json:"numGC"`
}

type healthResponse struct {
	Status      string       `json:"status"`
	Timestamp   time.Time    `json:"timestamp"`
	Uptime      float64      `json:"uptime"`
	Memory      healthMemory `json:"memory"`
	Version     string       `json:"version"`
	Environment string       `json:"environment"`
}

type componentHealth struct {
	Status    string    `json:"status"`
	LastCheck time.Time `json:"lastCheck"`
}

func (s *Server) health() healthResponse {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.started).Seconds(),
		Memory: healthMemory{
			Alloc:      mem.Alloc,
			TotalAlloc: mem.TotalAlloc,
			Sys:        mem.Sys,
			NumGC:      mem.NumGC,
		},
		Version:     Version,
		Environment: s.opts.Environment,
	}
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health())
}

// handleHealthDetailed handles GET /health/detailed. It exercises a store
// read so a broken backend shows up as degraded rather than ok.
func (s *Server) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	base := s.health()
	now := time.Now().UTC()

	storeStatus := "ok"
	if _, err := s.service.Stats(r.Context()); err != nil {
		storeStatus = "error"
		base.Status = "degraded"
		s.logger.Error("store health check failed", "err", err)
	}

	eventsStatus := "disabled"
	if s.opts.EventsEnabled {
		eventsStatus = "ok"
	}

	writeJSON(w, http.StatusOK, struct {
		healthResponse
		Components map[string]componentHealth `json:"components"`
	}{
		healthResponse: base,
		Components: map[string]componentHealth{
			"store":  {Status: storeStatus, LastCheck: now},
			"events": {Status: eventsStatus, LastCheck: now},
		},
	})
}
