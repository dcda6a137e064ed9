package falldetect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidEvent = errors.New("invalid fall event")

type Service struct {
	repo Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
		log:  log,
	}
}

// Record validates and persists one detected fall.
func (s *Service) Record(ctx context.Context, ev Event) (*Event, error) {
	if ev.Acceleration <= 0 {
		return nil, fmt.Errorf("%w: acceleration must be positive", ErrInvalidEvent)
	}
	if ev.DurationMs < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrInvalidEvent)
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = s.now().UTC()
	}
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}

	saved, err := s.repo.Insert(ctx, ev)
	if err != nil {
		return nil, fmt.Errorf("record fall event: %w", err)
	}

	s.log.Info("fall event recorded",
		zap.String("event_id", saved.ID.String()),
		zap.Time("occurred_at", saved.OccurredAt),
		zap.Float64("acceleration", saved.Acceleration))

	return saved, nil
}

// ListRecent returns the most recent fall events, newest first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50 // default
	}
	if limit > 200 {
		limit = 200 // max
	}

	events, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list fall events: %w", err)
	}
	return events, nil
}
