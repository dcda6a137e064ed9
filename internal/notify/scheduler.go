package notify

import (
	"context"
	"time"
)

// Reminder is one scheduled appointment notification.
type Reminder struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	FireAt  time.Time `json:"fire_at"`
}

// Scheduler registers and cancels appointment reminders. Scheduling the same
// id again replaces the earlier reminder; cancelling an unknown id is a no-op.
type Scheduler interface {
	Schedule(ctx context.Context, id string, fireAt time.Time, title, message string) error
	Cancel(ctx context.Context, id string) error
}
