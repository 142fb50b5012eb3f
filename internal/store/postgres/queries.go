package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hsuehlab/shopline-middleware/internal/model"
	"github.com/hsuehlab/shopline-middleware/internal/store"
)

// eventColumns is the column list used for SELECT statements on the events table.
const eventColumns = `seq, id, type, source, data, timestamp, status`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryAppendEvent(ctx context.Context, db executor, e *model.Event) error {
	if missing := e.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", store.ErrInvalidEvent, strings.Join(missing, ", "))
	}

	row := db.QueryRowContext(ctx, `
		INSERT INTO events (id, type, source, data, timestamp, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq`,
		e.ID,
		e.Type,
		e.Source,
		[]byte(e.Data),
		e.Timestamp,
		string(e.Status),
	)
	if err := row.Scan(&e.Seq); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func queryListEvents(ctx context.Context, db executor, f model.EventFilter) ([]*model.Event, int, error) {
	f = f.Normalize()

	var conds []string
	var args []any
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		conds = append(conds, fmt.Sprintf("source = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	args = append(args, f.Limit)
	limitArg := len(args)
	args = append(args, (f.Page-1)*f.Limit)
	offsetArg := len(args)

	q := `SELECT COUNT(*) OVER() AS total_count, ` + eventColumns + ` FROM events` + where +
		fmt.Sprintf(` ORDER BY seq DESC LIMIT $%d OFFSET $%d`, limitArg, offsetArg)

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []*model.Event{}
	total := 0
	for rows.Next() {
		e, n, err := scanEventWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan event: %w", err)
		}
		total = n
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate events: %w", err)
	}

	// A page past the end returns no rows, losing the window total; count
	// separately so pagination stays correct.
	if len(events) == 0 {
		countArgs := args[:len(args)-2]
		row := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+where, countArgs...)
		if err := row.Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count events: %w", err)
		}
	}

	return events, total, nil
}

func queryEventStats(ctx context.Context, db executor) (*model.EventStats, error) {
	stats := &model.EventStats{
		ByType:   make(map[string]int),
		BySource: make(map[string]int),
		ByStatus: make(map[string]int),
		Recent:   []*model.Event{},
	}

	for _, g := range []struct {
		column string
		dest   map[string]int
	}{
		{"type", stats.ByType},
		{"source", stats.BySource},
		{"status", stats.ByStatus},
	} {
		if err := queryGroupCounts(ctx, db, g.column, g.dest); err != nil {
			return nil, err
		}
	}

	for _, n := range stats.ByStatus {
		stats.Total += n
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY seq DESC LIMIT $1`, model.RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recent event: %w", err)
		}
		stats.Recent = append(stats.Recent, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent events: %w", err)
	}

	return stats, nil
}

func queryGroupCounts(ctx context.Context, db executor, column string, dest map[string]int) error {
	rows, err := db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s, COUNT(*) FROM events GROUP BY %s`, column, column))
	if err != nil {
		return fmt.Errorf("group by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("scan %s count: %w", column, err)
		}
		dest[key] = count
	}
	return rows.Err()
}
