package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hsuehlab/shopline-middleware/internal/model"
	"github.com/hsuehlab/shopline-middleware/internal/store"
)

func newEvent(id, typ, source string) *model.Event {
	return &model.Event{
		ID:     id,
		Type:   typ,
		Source: source,
		Data:   json.RawMessage(`{}`),
		Status: model.StatusPending,
	}
}

func mustAppend(t *testing.T, s *MemoryStore, e *model.Event) {
	t.Helper()
	if err := s.AppendEvent(context.Background(), e); err != nil {
		t.Fatalf("AppendEvent(%s): %v", e.ID, err)
	}
}

func TestAppendEvent_MissingFields(t *testing.T) {
	s := New()
	err := s.AppendEvent(context.Background(), &model.Event{Type: "order.created"})
	if !errors.Is(err, store.ErrInvalidEvent) {
		t.Fatalf("AppendEvent error = %v, want ErrInvalidEvent", err)
	}

	_, total, err := s.ListEvents(context.Background(), model.EventFilter{})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if total != 0 {
		t.Errorf("rejected append must not be stored, total = %d", total)
	}
}

func TestAppendEvent_CancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.AppendEvent(ctx, newEvent("evt_1", "a", "b")); err == nil {
		t.Fatal("AppendEvent with cancelled context should fail")
	}

	stats, err := s.EventStats(context.Background())
	if err != nil {
		t.Fatalf("EventStats: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("cancelled append must not commit, total = %d", stats.Total)
	}
}

func TestListEvents_NewestFirst(t *testing.T) {
	s := New()
	for i := 1; i <= 5; i++ {
		mustAppend(t, s, newEvent(fmt.Sprintf("evt_%d", i), "order.created", "shopline"))
	}

	events, total, err := s.ListEvents(context.Background(), model.EventFilter{Page: 1, Limit: 5})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	for i, e := range events {
		want := fmt.Sprintf("evt_%d", 5-i)
		if e.ID != want {
			t.Errorf("events[%d].ID = %s, want %s", i, e.ID, want)
		}
	}
}

func TestListEvents_Pagination(t *testing.T) {
	s := New()
	for i := 1; i <= 25; i++ {
		mustAppend(t, s, newEvent(fmt.Sprintf("evt_%d", i), "order.created", "shopline"))
	}

	page1, total, err := s.ListEvents(context.Background(), model.EventFilter{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents page 1: %v", err)
	}
	page3, _, err := s.ListEvents(context.Background(), model.EventFilter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("ListEvents page 3: %v", err)
	}

	if total != 25 {
		t.Errorf("total = %d, want 25", total)
	}
	if len(page1) != 10 {
		t.Errorf("page 1 length = %d, want 10", len(page1))
	}
	if len(page3) != 5 {
		t.Errorf("page 3 length = %d, want 5", len(page3))
	}
	if page1[0].ID != "evt_25" || page3[4].ID != "evt_1" {
		t.Errorf("page boundaries wrong: first=%s last=%s", page1[0].ID, page3[4].ID)
	}
}

func TestListEvents_PageBeyondRange(t *testing.T) {
	s := New()
	mustAppend(t, s, newEvent("evt_1", "order.created", "shopline"))

	events, total, err := s.ListEvents(context.Background(), model.EventFilter{Page: 9, Limit: 20})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("out-of-range page should be empty, got %d events", len(events))
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestListEvents_ClampsPaging(t *testing.T) {
	s := New()
	for i := 0; i < 3; i++ {
		mustAppend(t, s, newEvent(fmt.Sprintf("evt_%d", i), "order.created", "shopline"))
	}

	// page < 1 falls back to page 1, limit > max is clamped rather than erroring.
	events, _, err := s.ListEvents(context.Background(), model.EventFilter{Page: -5, Limit: 100000})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("len = %d, want 3", len(events))
	}
}

func TestListEvents_Filters(t *testing.T) {
	s := New()
	mustAppend(t, s, newEvent("evt_1", "order.created", "shopline"))
	mustAppend(t, s, newEvent("evt_2", "order.updated", "shopline"))
	mustAppend(t, s, newEvent("evt_3", "order.created", "webhook"))
	mustAppend(t, s, newEvent("evt_4", "order.created", "shopline"))

	events, total, err := s.ListEvents(context.Background(), model.EventFilter{Type: "order.created", Source: "shopline"})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if events[0].ID != "evt_4" || events[1].ID != "evt_1" {
		t.Errorf("filtered order wrong: %s, %s", events[0].ID, events[1].ID)
	}
}

func TestEventStats(t *testing.T) {
	s := New()
	mustAppend(t, s, newEvent("evt_1", "order.created", "shopline"))
	mustAppend(t, s, newEvent("evt_2", "order.created", "webhook"))
	mustAppend(t, s, newEvent("evt_3", "product.updated", "shopline"))

	stats, err := s.EventStats(context.Background())
	if err != nil {
		t.Fatalf("EventStats: %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.ByType["order.created"] != 2 || stats.ByType["product.updated"] != 1 {
		t.Errorf("ByType = %v", stats.ByType)
	}
	if stats.BySource["shopline"] != 2 || stats.BySource["webhook"] != 1 {
		t.Errorf("BySource = %v", stats.BySource)
	}
	if stats.ByStatus["pending"] != 3 {
		t.Errorf("ByStatus = %v", stats.ByStatus)
	}

	sum := 0
	for _, n := range stats.ByType {
		sum += n
	}
	if sum != stats.Total {
		t.Errorf("ByType counts sum to %d, want %d", sum, stats.Total)
	}

	if len(stats.Recent) != 3 || stats.Recent[0].ID != "evt_3" {
		t.Errorf("Recent wrong: %+v", stats.Recent)
	}
}

func TestEventStats_RecentBounded(t *testing.T) {
	s := New()
	for i := 1; i <= 15; i++ {
		mustAppend(t, s, newEvent(fmt.Sprintf("evt_%d", i), "order.created", "shopline"))
	}

	stats, err := s.EventStats(context.Background())
	if err != nil {
		t.Fatalf("EventStats: %v", err)
	}
	if len(stats.Recent) != model.RecentLimit {
		t.Fatalf("len(Recent) = %d, want %d", len(stats.Recent), model.RecentLimit)
	}
	if stats.Recent[0].ID != "evt_15" || stats.Recent[model.RecentLimit-1].ID != "evt_6" {
		t.Errorf("Recent window wrong: first=%s last=%s", stats.Recent[0].ID, stats.Recent[model.RecentLimit-1].ID)
	}
}

func TestEventStats_Empty(t *testing.T) {
	s := New()
	stats, err := s.EventStats(context.Background())
	if err != nil {
		t.Fatalf("EventStats: %v", err)
	}
	if stats.Total != 0 || len(stats.Recent) != 0 {
		t.Errorf("empty store stats = %+v", stats)
	}
}

func TestAppendEvent_ConcurrentOrdering(t *testing.T) {
	s := New()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mustAppendConcurrent(t, s, newEvent(fmt.Sprintf("evt_%d", i), "order.created", "shopline"))
		}(i)
	}
	wg.Wait()

	events, total, err := s.ListEvents(context.Background(), model.EventFilter{Page: 1, Limit: model.MaxLimit})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if total != n {
		t.Fatalf("total = %d, want %d: concurrent appends lost events", total, n)
	}

	// No duplicates, and sequences strictly descending across the page.
	seen := make(map[string]struct{}, len(events))
	for i, e := range events {
		if _, dup := seen[e.ID]; dup {
			t.Fatalf("duplicate event %s in listing", e.ID)
		}
		seen[e.ID] = struct{}{}
		if i > 0 && events[i-1].Seq <= e.Seq {
			t.Fatalf("sequence not descending: %d then %d", events[i-1].Seq, e.Seq)
		}
	}
}

func mustAppendConcurrent(t *testing.T, s *MemoryStore, e *model.Event) {
	t.Helper()
	if err := s.AppendEvent(context.Background(), e); err != nil {
		t.Errorf("AppendEvent(%s): %v", e.ID, err)
	}
}
