// Package store defines the persistence interface for the event append log.
package store

import (
	"context"
	"errors"

	"github.com/hsuehlab/shopline-middleware/internal/model"
)

// ErrInvalidEvent is returned by AppendEvent when required fields are missing.
var ErrInvalidEvent = errors.New("event missing required fields")

// Store is the append log backing the event service. Implementations must be
// safe for concurrent use; appends are linearizable and queries read a
// consistent snapshot.
type Store interface {
	// AppendEvent inserts an event, assigning its insertion sequence.
	// A cancelled context commits fully or not at all.
	AppendEvent(ctx context.Context, event *model.Event) error

	// ListEvents returns events matching the filter, newest first, plus
	// the total matched count. Paging values are clamped, and an empty
	// result is not an error.
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, int, error)

	// EventStats aggregates over the full event set.
	EventStats(ctx context.Context) (*model.EventStats, error)

	// Lifecycle
	Close() error
}
