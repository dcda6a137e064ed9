package falldetect

import (
	"context"
	"errors"
)

var ErrEventNotFound = errors.New("fall event not found")

// Repository persists fall events.
type Repository interface {
	Insert(ctx context.Context, ev Event) (*Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
