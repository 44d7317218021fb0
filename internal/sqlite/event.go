package sqlite

import (
	"context"
	"fmt"

	"github.com/ganot/gigledger/internal/domain/event"
)

// EventRepository implements repository.EventRepository for SQLite
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Log appends an event to the log
func (r *EventRepository) Log(ctx context.Context, e *event.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, project_id, type, actor, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.ProjectID,
		string(e.Type),
		e.Actor,
		e.Amount,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log event: %w", err)
	}
	return nil
}

// List returns events in append order with filtering
func (r *EventRepository) List(ctx context.Context, opts event.ListOptions) ([]event.Event, error) {
	query := `SELECT id, project_id, type, actor, amount, created_at FROM events WHERE 1=1`
	args := []any{}

	if opts.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *opts.ProjectID)
	}
	if opts.Type != nil {
		query += ` AND type = ?`
		args = append(args, string(*opts.Type))
	}

	query += ` ORDER BY rowid ASC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var e event.Event
		var typ string
		if err := rows.Scan(&e.ID, &e.ProjectID, &typ, &e.Actor, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Type = event.Type(typ)
		events = append(events, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}
