package model

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle tag of an ingested event.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
)

// Event is a single ingested domain event. Data is the producer's payload,
// stored and returned verbatim; the platform never interprets it.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	Status    Status          `json:"status"`

	// Seq is the store-assigned insertion sequence, used for stable
	// ordering. Not part of the wire format.
	Seq int64 `json:"-"`
}

// MissingFields returns the names of required ingestion fields that are
// absent, in a fixed order.
func (e *Event) MissingFields() []string {
	var missing []string
	if e.Type == "" {
		missing = append(missing, "type")
	}
	if len(e.Data) == 0 || string(e.Data) == "null" {
		missing = append(missing, "data")
	}
	if e.Source == "" {
		missing = append(missing, "source")
	}
	return missing
}
