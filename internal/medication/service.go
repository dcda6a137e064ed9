package medication

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/notify"
	"github.com/evercare-health/companion-api/internal/settings"
)

type Service struct {
	store     *Store
	settings  *settings.Store
	reminders notify.Scheduler
	now       func() time.Time
	log       *zap.Logger
}

func NewService(store *Store, settings *settings.Store, reminders notify.Scheduler, log *zap.Logger) *Service {
	return &Service{
		store:     store,
		settings:  settings,
		reminders: reminders,
		now:       time.Now,
		log:       log,
	}
}

// Add validates and stores a medication, stamping its expiry from the course
// duration. When the user's medication reminders toggle is on, a first-dose
// reminder goes through the scheduler; a reminder failure never unwinds the
// add.
func (s *Service) Add(ctx context.Context, med Medication) (*Medication, error) {
	if err := med.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if med.ID == uuid.Nil {
		med.ID = uuid.New()
	}
	med.CreatedAt = now
	med.ExpiresAt = now.Add(time.Duration(med.durationDays()) * 24 * time.Hour)

	if err := s.store.Add(ctx, med); err != nil {
		return nil, fmt.Errorf("store medication: %w", err)
	}

	s.log.Info("medication added",
		zap.String("medication_id", med.ID.String()),
		zap.String("name", med.Name),
		zap.Time("expires_at", med.ExpiresAt))

	s.scheduleFirstDose(ctx, med)

	return &med, nil
}

// List returns the current (unexpired) medications, newest first.
func (s *Service) List(ctx context.Context) ([]Medication, error) {
	meds, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return meds, nil
}

// Remove deletes a medication and drops its dose reminder. Removing an
// unknown id is a no-op.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("remove medication: %w", err)
	}
	if !removed {
		return nil
	}

	if err := s.reminders.Cancel(ctx, reminderID(id)); err != nil {
		s.log.Warn("failed to cancel medication reminder",
			zap.String("medication_id", id.String()),
			zap.Error(err))
	}
	return nil
}

func (s *Service) scheduleFirstDose(ctx context.Context, med Medication) {
	cfg, err := s.settings.Load(ctx)
	if err != nil {
		s.log.Warn("failed to load settings, skipping medication reminder",
			zap.String("medication_id", med.ID.String()),
			zap.Error(err))
		return
	}
	if !cfg.RemindersEnabled {
		return
	}

	fireAt := med.CreatedAt.Add(med.doseInterval())
	title := fmt.Sprintf("Medication: %s", med.Name)
	msg := fmt.Sprintf("Take %d unit(s) of %s", med.Amount, med.Name)
	if err := s.reminders.Schedule(ctx, reminderID(med.ID), fireAt, title, msg); err != nil {
		s.log.Warn("failed to schedule medication reminder",
			zap.String("medication_id", med.ID.String()),
			zap.Error(err))
	}
}

func reminderID(id uuid.UUID) string {
	return "med:" + id.String()
}
