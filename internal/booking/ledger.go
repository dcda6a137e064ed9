package booking

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/kv"
)

// Ledger is the locally persisted sequence of booked appointments, in
// insertion order. Mutations rewrite the whole sequence; callers that need
// exclusion across read-modify-write run under the slot locker.
type Ledger interface {
	Append(ctx context.Context, appt Appointment) error
	RemoveBySlotID(ctx context.Context, slotID string) (bool, error)
	ReadAll(ctx context.Context) ([]Appointment, error)
	Clear(ctx context.Context) error
}

type kvLedger struct {
	store kv.Store
	key   string
	log   *zap.Logger
}

// NewKVLedger stores the ledger as one JSON array under a fixed key.
func NewKVLedger(store kv.Store, key string, log *zap.Logger) Ledger {
	return &kvLedger{store: store, key: key, log: log}
}

// ReadAll returns the persisted sequence. A missing key is an empty ledger;
// a corrupt document is treated the same, logged rather than surfaced, so a
// bad write can never wedge the whole appointment view.
func (l *kvLedger) ReadAll(ctx context.Context) ([]Appointment, error) {
	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var appts []Appointment
	if err := json.Unmarshal([]byte(raw), &appts); err != nil {
		l.log.Warn("ledger document corrupt, treating as empty",
			zap.String("key", l.key),
			zap.Error(err))
		return nil, nil
	}
	return appts, nil
}

func (l *kvLedger) Append(ctx context.Context, appt Appointment) error {
	current, err := l.ReadAll(ctx)
	if err != nil {
		return err
	}
	return l.write(ctx, append(current, appt))
}

// RemoveBySlotID filters out every entry whose slot id matches and rewrites
// the sequence. Removing an absent id is a no-op; the bool reports whether
// anything was actually removed.
func (l *kvLedger) RemoveBySlotID(ctx context.Context, slotID string) (bool, error) {
	current, err := l.ReadAll(ctx)
	if err != nil {
		return false, err
	}

	filtered := current[:0]
	for _, a := range current {
		if a.Slot.SlotID != slotID {
			filtered = append(filtered, a)
		}
	}
	if len(filtered) == len(current) {
		return false, nil
	}
	return true, l.write(ctx, filtered)
}

func (l *kvLedger) Clear(ctx context.Context) error {
	if err := l.store.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}
	return nil
}

func (l *kvLedger) write(ctx context.Context, appts []Appointment) error {
	if appts == nil {
		appts = []Appointment{}
	}
	data, err := json.Marshal(appts)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	if err := l.store.Set(ctx, l.key, string(data)); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}
