// Package memory implements store.Store with an in-process append log.
// It is the default backend when no database is configured.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hsuehlab/shopline-middleware/internal/model"
	"github.com/hsuehlab/shopline-middleware/internal/store"
)

// MemoryStore holds all events in insertion order. Appends take the write
// lock so the sequence assignment and the slice append are one atomic step;
// reads share the read lock and never block each other.
type MemoryStore struct {
	mu     sync.RWMutex
	seq    int64
	events []*model.Event
}

// Compile-time check that MemoryStore implements store.Store.
var _ store.Store = (*MemoryStore)(nil)

// New returns an empty in-memory event store.
func New() *MemoryStore {
	return &MemoryStore{}
}

// AppendEvent inserts an event and assigns its insertion sequence.
func (s *MemoryStore) AppendEvent(ctx context.Context, event *model.Event) error {
	if missing := event.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", store.ErrInvalidEvent, strings.Join(missing, ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A cancelled publish must not leave a half-committed event.
	if err := ctx.Err(); err != nil {
		return err
	}

	s.seq++
	event.Seq = s.seq
	s.events = append(s.events, event)
	return nil
}

// ListEvents returns the requested page of matching events, newest first,
// along with the total matched count.
func (s *MemoryStore) ListEvents(_ context.Context, filter model.EventFilter) ([]*model.Event, int, error) {
	filter = filter.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*model.Event, 0, len(s.events))
	for i := len(s.events) - 1; i >= 0; i-- {
		if filter.Matches(s.events[i]) {
			matched = append(matched, s.events[i])
		}
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []*model.Event{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	page := make([]*model.Event, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

// EventStats aggregates the full event set under a single read lock so the
// counts and the recent slice reflect one snapshot.
func (s *MemoryStore) EventStats(_ context.Context) (*model.EventStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &model.EventStats{
		Total:    len(s.events),
		ByType:   make(map[string]int),
		BySource: make(map[string]int),
		ByStatus: make(map[string]int),
		Recent:   []*model.Event{},
	}

	for _, e := range s.events {
		stats.ByType[e.Type]++
		stats.BySource[e.Source]++
		stats.ByStatus[string(e.Status)]++
	}

	n := len(s.events)
	if n > model.RecentLimit {
		n = model.RecentLimit
	}
	for i := len(s.events) - 1; i >= len(s.events)-n; i-- {
		stats.Recent = append(stats.Recent, s.events[i])
	}

	return stats, nil
}

// Close releases the backing slice.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	return nil
}
