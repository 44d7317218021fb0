package event

import "context"

// Repository provides persistence operations for ledger events.
type Repository interface {
	Log(ctx context.Context, e *Event) error
	List(ctx context.Context, opts ListOptions) ([]Event, error)
}
