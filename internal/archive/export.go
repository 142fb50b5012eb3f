package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/hsuehlab/shopline-middleware/internal/model"
	"github.com/hsuehlab/shopline-middleware/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	EventCount int       `json:"event_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes all events from the store as JSONL to w, oldest first.
// The store returns pages newest-first, so pages are collected and the
// whole set reversed before encoding.
//
// Publishes can land between page fetches and shift every later window,
// which would re-surface an event the previous page already covered. The
// store only ever appends, so collected sequence numbers must be strictly
// descending; anything at or above the lowest sequence seen so far is a
// window shift and is skipped. Events published after the first page are
// excluded the same way, making the export a snapshot as of that page.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	var all []*model.Event
	minSeq := int64(math.MaxInt64)
	for page := 1; ; page++ {
		events, _, err := s.ListEvents(ctx, model.EventFilter{Page: page, Limit: model.MaxLimit})
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		for _, e := range events {
			if e.Seq >= minSeq {
				continue
			}
			all = append(all, e)
			minSeq = e.Seq
		}
		if len(events) < model.MaxLimit {
			break
		}
	}

	// Oldest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		Timestamp:  time.Now().UTC(),
		EventCount: len(all),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, e := range all {
		if err := enc.Encode(record{Type: "event", Data: e}); err != nil {
			return fmt.Errorf("encode event %s: %w", e.ID, err)
		}
	}

	return nil
}
