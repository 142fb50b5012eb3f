// Package service holds the business rules for event ingestion and query.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hsuehlab/shopline-middleware/internal/events"
	"github.com/hsuehlab/shopline-middleware/internal/idgen"
	"github.com/hsuehlab/shopline-middleware/internal/model"
	"github.com/hsuehlab/shopline-middleware/internal/store"
)

var eventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "slmw_events_ingested_total",
	Help: "Events accepted for ingestion, by type and source.",
}, []string{"type", "source"})

// inputError indicates invalid caller input.
// Transport layers map this to HTTP 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// IsInputError reports whether err originated from caller input validation.
func IsInputError(err error) bool {
	var ie inputError
	return errors.As(err, &ie)
}

// EventService validates, identifies, stores, and queries events. It is the
// only component with business rules; construct one per process and inject it
// into transports.
type EventService struct {
	store     store.Store
	publisher events.Publisher
	logger    *slog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// New returns an EventService backed by the given store and publisher.
func New(s store.Store, p events.Publisher, logger *slog.Logger) *EventService {
	return &EventService{
		store:     s,
		publisher: p,
		logger:    logger,
		tracer:    otel.Tracer("event-service"),
		now:       time.Now,
	}
}

// PublishRequest carries an event to ingest. Timestamp is the caller-supplied
// occurrence time as RFC 3339; empty or unparsable falls back to ingestion time.
type PublishRequest struct {
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// Publish validates the request, assigns identity and timestamp, and commits
// the event to the store. Two identical requests produce two distinct events;
// there is no deduplication key. The ingested-event fan-out to NATS is
// best-effort once the store write has committed.
func (s *EventService) Publish(ctx context.Context, req PublishRequest) (*model.Event, error) {
	ctx, span := s.tracer.Start(ctx, "events.publish",
		trace.WithAttributes(
			attribute.String("event.type", req.Type),
			attribute.String("event.source", req.Source),
		),
	)
	defer span.End()

	event := &model.Event{
		Type:   req.Type,
		Source: req.Source,
		Data:   req.Data,
		Status: model.StatusPending,
	}
	if missing := event.MissingFields(); len(missing) > 0 {
		return nil, inputError("missing required fields: " + strings.Join(missing, ", "))
	}

	event.Timestamp = s.now().UTC()
	if req.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			event.Timestamp = ts.UTC()
		}
	}

	id, err := idgen.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}
	event.ID = id

	if err := s.store.AppendEvent(ctx, event); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("append event: %w", err)
	}

	eventsIngested.WithLabelValues(event.Type, event.Source).Inc()

	if err := s.publisher.Publish(ctx, events.TopicEventIngested, events.EventIngested{Event: event}); err != nil {
		s.logger.Warn("failed to publish ingested event", "event_id", event.ID, "type", event.Type, "err", err)
	}

	s.logger.Info("event published", "event_id", event.ID, "type", event.Type, "source", event.Source)
	return event, nil
}

// List returns one page of matching events, newest first, with a pagination
// block describing the matched set.
func (s *EventService) List(ctx context.Context, filter model.EventFilter) (*model.EventPage, error) {
	ctx, span := s.tracer.Start(ctx, "events.list",
		trace.WithAttributes(
			attribute.Int("query.page", filter.Page),
			attribute.Int("query.limit", filter.Limit),
		),
	)
	defer span.End()

	if filter.Limit <= 0 {
		return nil, inputError("limit must be at least 1")
	}
	filter = filter.Normalize()

	evts, total, err := s.store.ListEvents(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list events: %w", err)
	}

	pages := 0
	if total > 0 {
		pages = (total + filter.Limit - 1) / filter.Limit
	}

	return &model.EventPage{
		Events: evts,
		Pagination: model.Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// Stats aggregates the full event set. Pure read, no side effects.
func (s *EventService) Stats(ctx context.Context) (*model.EventStats, error) {
	ctx, span := s.tracer.Start(ctx, "events.stats")
	defer span.End()

	stats, err := s.store.EventStats(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("event stats: %w", err)
	}
	return stats, nil
}
