package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service handles event log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new event service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Log records an event, filling in id and timestamp if missing.
func (s *Service) Log(ctx context.Context, e *Event) error {
	if e == nil || e.Type == "" {
		return ErrInvalidInput
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, e); err != nil {
		return fmt.Errorf("logging event: %w", err)
	}
	return nil
}

// Recent lists events with filtering.
func (s *Service) Recent(ctx context.Context, opts ListOptions) ([]Event, error) {
	return s.repo.List(ctx, opts)
}
