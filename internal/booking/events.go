package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	EventBookingCreated   = "BOOKING_CREATED"
	EventBookingCancelled = "BOOKING_CANCELLED"
)

// EventRecorder appends audit events for booking activity. Failures are
// logged by the service, never fatal to the operation they describe.
type EventRecorder interface {
	Record(ctx context.Context, ev EventLog) error
}

// EventDB is the slice of pgxpool.Pool the event log needs; pgxmock
// satisfies it in tests.
type EventDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type pgEventLog struct {
	db EventDB
}

func NewPgEventLog(db EventDB) EventRecorder {
	return &pgEventLog{db: db}
}

func (r *pgEventLog) Record(ctx context.Context, ev EventLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO booking_events (event_type, slot_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.SlotID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert booking event: %w", err)
	}

	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
