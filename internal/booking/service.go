package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/calendar"
	"github.com/evercare-health/companion-api/internal/notify"
	redisclient "github.com/evercare-health/companion-api/internal/redis"
)

var (
	ErrSlotNotFound      = errors.New("slot not found")
	ErrSlotNotOpen       = errors.New("slot is not open")
	ErrSlotAlreadyBooked = errors.New("slot is already booked")
	ErrSlotBeingBooked   = errors.New("slot is currently being booked, please retry")
)

// SlotSource supplies the static provider list and normalized slots per
// provider. Implemented by provider.Registry.
type SlotSource interface {
	Providers() []Provider
	ListSlots(ctx context.Context, providerID string) ([]Slot, error)
}

// Partition is the ledger split into the two appointment views.
type Partition struct {
	Upcoming []Appointment `json:"upcoming"`
	Past     []Appointment `json:"past"`
}

type Service struct {
	source    SlotSource
	ledger    Ledger
	locker    redisclient.Locker
	events    EventRecorder
	cal       calendar.Calendar
	reminders notify.Scheduler
	lead      time.Duration
	now       func() time.Time
	log       *zap.Logger
}

func NewService(
	source SlotSource,
	ledger Ledger,
	locker redisclient.Locker,
	events EventRecorder,
	cal calendar.Calendar,
	reminders notify.Scheduler,
	reminderLead time.Duration,
	log *zap.Logger,
) *Service {
	return &Service{
		source:    source,
		ledger:    ledger,
		locker:    locker,
		events:    events,
		cal:       cal,
		reminders: reminders,
		lead:      reminderLead,
		now:       time.Now,
		log:       log,
	}
}

// Providers returns the bookable provider list.
func (s *Service) Providers() []Provider {
	return s.source.Providers()
}

// Resolve computes the slots still open for booking with the given provider,
// grouped by UTC calendar day. Slots already held by the ledger for that
// provider are subtracted; days left with no open slot are omitted entirely.
func (s *Service) Resolve(ctx context.Context, providerID string) (map[string][]Slot, error) {
	slots, err := s.source.ListSlots(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("fetch slots: %w", err)
	}

	booked, err := s.bookedSlotIDs(ctx, providerID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]Slot)
	for _, slot := range slots {
		if !slot.Available {
			continue
		}
		if _, taken := booked[slot.SlotID]; taken {
			continue
		}
		day := slot.DayKey()
		byDay[day] = append(byDay[day], slot)
	}

	for day := range byDay {
		group := byDay[day]
		sort.Slice(group, func(i, j int) bool {
			return group[i].StartTime.Before(group[j].StartTime)
		})
	}

	return byDay, nil
}

// Book reserves a slot: it re-reads the ledger under the per-slot lock so two
// racing requests cannot both append the same slot, then runs the calendar
// and reminder follow-ups best-effort. A follow-up failure never unwinds the
// booking.
func (s *Service) Book(ctx context.Context, providerID, slotID string) (*Appointment, error) {
	prov, ok := s.findProvider(providerID)
	if !ok {
		return nil, ErrSlotNotFound
	}

	slots, err := s.source.ListSlots(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("fetch slots: %w", err)
	}

	var slot *Slot
	for i := range slots {
		if slots[i].SlotID == slotID {
			slot = &slots[i]
			break
		}
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if !slot.Available {
		return nil, ErrSlotNotOpen
	}

	var created *Appointment

	err = s.locker.WithSlotLock(ctx, slotID, func(lockCtx context.Context) error {
		current, err := s.ledger.ReadAll(lockCtx)
		if err != nil {
			return err
		}
		for _, a := range current {
			if a.Slot.SlotID == slotID && a.Provider.ID == providerID {
				return ErrSlotAlreadyBooked
			}
		}

		appt := Appointment{
			Provider: prov,
			Doctor:   Doctor{ID: slot.DoctorID},
			Slot:     *slot,
			BookedAt: s.now().UTC(),
		}
		if err := s.ledger.Append(lockCtx, appt); err != nil {
			return fmt.Errorf("append to ledger: %w", err)
		}

		created = &appt

		s.logEvent(lockCtx, EventBookingCreated, slotID, map[string]any{
			"provider_id": providerID,
			"start_time":  slot.StartTime,
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	s.runFollowUps(ctx, created)

	return created, nil
}

// Cancel removes a booking by slot id and drops its reminder. Cancelling a
// slot that is not in the ledger is a no-op and leaves no audit trace.
func (s *Service) Cancel(ctx context.Context, slotID string) error {
	removed, err := s.ledger.RemoveBySlotID(ctx, slotID)
	if err != nil {
		return fmt.Errorf("remove from ledger: %w", err)
	}
	if !removed {
		return nil
	}

	if err := s.reminders.Cancel(ctx, slotID); err != nil {
		s.log.Warn("failed to cancel reminder", zap.String("slot_id", slotID), zap.Error(err))
	}

	s.logEvent(ctx, EventBookingCancelled, slotID, map[string]any{})

	return nil
}

// ClearAll wipes the whole booking ledger.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.ledger.Clear(ctx)
}

// PartitionAt splits the ledger around now: upcoming holds entries starting
// at or after now sorted soonest first, past holds the rest sorted most
// recent first. An appointment starting exactly at now counts as upcoming.
func (s *Service) PartitionAt(ctx context.Context, now time.Time) (Partition, error) {
	all, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return Partition{}, err
	}

	part := Partition{
		Upcoming: []Appointment{},
		Past:     []Appointment{},
	}
	for _, a := range all {
		if a.Slot.StartTime.Before(now) {
			part.Past = append(part.Past, a)
		} else {
			part.Upcoming = append(part.Upcoming, a)
		}
	}

	sort.Slice(part.Upcoming, func(i, j int) bool {
		return part.Upcoming[i].Slot.StartTime.Before(part.Upcoming[j].Slot.StartTime)
	})
	sort.Slice(part.Past, func(i, j int) bool {
		return part.Past[i].Slot.StartTime.After(part.Past[j].Slot.StartTime)
	})

	return part, nil
}

// NextUpcoming returns the single earliest appointment starting after now,
// optionally restricted to one provider. No upcoming appointment yields
// (nil, nil).
func (s *Service) NextUpcoming(ctx context.Context, now time.Time, providerID string) (*Appointment, error) {
	part, err := s.PartitionAt(ctx, now)
	if err != nil {
		return nil, err
	}

	for i := range part.Upcoming {
		if providerID == "" || part.Upcoming[i].Provider.ID == providerID {
			return &part.Upcoming[i], nil
		}
	}
	return nil, nil
}

func (s *Service) findProvider(providerID string) (Provider, bool) {
	for _, p := range s.source.Providers() {
		if p.ID == providerID {
			return p, true
		}
	}
	return Provider{}, false
}

func (s *Service) bookedSlotIDs(ctx context.Context, providerID string) (map[string]struct{}, error) {
	all, err := s.ledger.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{})
	for _, a := range all {
		if a.Provider.ID == providerID {
			ids[a.Slot.SlotID] = struct{}{}
		}
	}
	return ids, nil
}

func (s *Service) runFollowUps(ctx context.Context, appt *Appointment) {
	title := fmt.Sprintf("Appointment: %s", appt.Provider.Name)

	granted, err := s.cal.RequestPermission(ctx)
	if err != nil || !granted {
		s.log.Warn("calendar permission not granted, skipping event",
			zap.String("slot_id", appt.Slot.SlotID),
			zap.Error(err))
	} else if _, err := s.cal.CreateEvent(ctx, title,
		appt.Slot.StartTime, appt.Slot.EndTime,
		appt.Slot.Branch.Name, "EverCare reminder"); err != nil {
		s.log.Warn("failed to create calendar event",
			zap.String("slot_id", appt.Slot.SlotID),
			zap.Error(err))
	}

	fireAt := appt.Slot.StartTime.Add(-s.lead)
	if !fireAt.After(s.now()) {
		return
	}
	msg := fmt.Sprintf("Your %s appointment at %s starts at %s",
		appt.Provider.Name,
		appt.Slot.Branch.Name,
		appt.Slot.StartTime.Format(time.RFC3339))
	if err := s.reminders.Schedule(ctx, appt.Slot.SlotID, fireAt, title, msg); err != nil {
		s.log.Warn("failed to schedule reminder",
			zap.String("slot_id", appt.Slot.SlotID),
			zap.Error(err))
	}
}

func (s *Service) logEvent(ctx context.Context, eventType, slotID string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("failed to marshal event payload", zap.String("event_type", eventType), zap.Error(err))
		data = nil
	}

	id := slotID

	ev := EventLog{
		EventType: eventType,
		SlotID:    &id,
		Payload:   data,
		CreatedAt: s.now(),
	}

	if err := s.events.Record(ctx, ev); err != nil {
		s.log.Warn("failed to record booking event",
			zap.String("event_type", eventType),
			zap.String("slot_id", slotID),
			zap.Error(err))
	}
}
