package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hsuehlab/shopline-middleware/internal/model"
	"github.com/hsuehlab/shopline-middleware/internal/service"
)

// handlePublishEvent handles POST /api/events/publish.
func (s *Server) handlePublishEvent(w http.ResponseWriter, r *http.Request) {
	var req service.PublishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, err := s.service.Publish(r.Context(), req)
	if err != nil {
		if service.IsInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("publish failed", "method", r.Method, "path", r.URL.Path,
			"source", req.Source, "err", err)
		writeError(w, http.StatusInternalServerError, s.internalMessage(err))
		return
	}

	writeData(w, http.StatusOK, event, "event published")
}

// handleListEvents handles GET /api/events.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.EventFilter{
		Type:   q.Get("type"),
		Source: q.Get("source"),
		Page:   model.DefaultPage,
		Limit:  model.DefaultLimit,
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		filter.Page = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		filter.Limit = n
	}

	page, err := s.service.List(r.Context(), filter)
	if err != nil {
		if service.IsInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("list events failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, s.internalMessage(err))
		return
	}

	writeData(w, http.StatusOK, page, "events listed")
}

// handleEventStats handles GET /api/events/stats/summary.
func (s *Server) handleEventStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.service.Stats(r.Context())
	if err != nil {
		s.logger.Error("event stats failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, s.internalMessage(err))
		return
	}

	writeData(w, http.StatusOK, stats, "event stats computed")
}
