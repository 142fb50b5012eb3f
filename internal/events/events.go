// Package events defines the domain event topics the platform publishes to
// NATS after ingestion, for downstream consumers such as the processing
// pipeline and the dashboard.
package events

import (
	"context"

	"github.com/hsuehlab/shopline-middleware/internal/model"
)

// Event topic constants
const (
	TopicEventIngested = "middleware.event.ingested"
)

// EventIngested is published after an event has been committed to the store.
type EventIngested struct {
	Event *model.Event `json:"event"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
