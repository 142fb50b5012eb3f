package postgres

import (
	"encoding/json"

	"github.com/hsuehlab/shopline-middleware/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanEvent scans a single row into a model.Event.
// The row must contain columns in the order defined by eventColumns.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var data []byte
	var status string

	err := row.Scan(
		&e.Seq,
		&e.ID,
		&e.Type,
		&e.Source,
		&data,
		&e.Timestamp,
		&status,
	)
	if err != nil {
		return nil, err
	}

	e.Data = json.RawMessage(data)
	e.Status = model.Status(status)
	return &e, nil
}

// scanEventWithTotal scans a row prefixed with a total_count window column.
func scanEventWithTotal(row scannable) (*model.Event, int, error) {
	var e model.Event
	var data []byte
	var status string
	var total int

	err := row.Scan(
		&total,
		&e.Seq,
		&e.ID,
		&e.Type,
		&e.Source,
		&data,
		&e.Timestamp,
		&status,
	)
	if err != nil {
		return nil, 0, err
	}

	e.Data = json.RawMessage(data)
	e.Status = model.Status(status)
	return &e, total, nil
}
