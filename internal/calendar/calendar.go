package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Calendar is the device calendar collaborator. Bookings call it as a
// best-effort follow-up; a failed calendar write never unwinds the booking.
type Calendar interface {
	RequestPermission(ctx context.Context) (bool, error)
	CreateEvent(ctx context.Context, title string, start, end time.Time, location, notes string) (string, error)
}

type logCalendar struct {
	log *zap.Logger
}

// NewLogCalendar returns a Calendar that records events to the log only.
// The native calendar lives on the device; the companion service just keeps
// an audit trail of what it asked for.
func NewLogCalendar(log *zap.Logger) Calendar {
	return &logCalendar{log: log}
}

func (c *logCalendar) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

func (c *logCalendar) CreateEvent(ctx context.Context, title string, start, end time.Time, location, notes string) (string, error) {
	eventID := uuid.NewString()
	c.log.Info("calendar event created",
		zap.String("event_id", eventID),
		zap.String("title", title),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.String("location", location),
		zap.String("notes", notes))
	return eventID, nil
}
