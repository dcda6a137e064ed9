package medication

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/kv"
)

// Store persists the medication list as one JSON array under a fixed key,
// newest first. Courses whose expiry has passed are pruned on read.
type Store struct {
	kv  kv.Store
	key string
	now func() time.Time
	log *zap.Logger
}

func NewStore(store kv.Store, key string, log *zap.Logger) *Store {
	return &Store{kv: store, key: key, now: time.Now, log: log}
}

// List returns the unexpired medications, newest first. A missing or corrupt
// document reads as empty; pruned entries are rewritten away.
func (s *Store) List(ctx context.Context) ([]Medication, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read medications: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var meds []Medication
	if err := json.Unmarshal([]byte(raw), &meds); err != nil {
		s.log.Warn("medication document corrupt, treating as empty",
			zap.String("key", s.key),
			zap.Error(err))
		return nil, nil
	}

	now := s.now()
	live := meds[:0]
	for _, m := range meds {
		if !m.ExpiresAt.IsZero() && m.ExpiresAt.Before(now) {
			continue
		}
		live = append(live, m)
	}
	if len(live) != len(meds) {
		if err := s.write(ctx, live); err != nil {
			return nil, err
		}
	}
	return live, nil
}

func (s *Store) Add(ctx context.Context, med Medication) error {
	current, err := s.List(ctx)
	if err != nil {
		return err
	}
	return s.write(ctx, append([]Medication{med}, current...))
}

// Remove deletes the medication with the given id and rewrites the list.
// Removing an absent id is a no-op; the bool reports whether anything was
// actually removed.
func (s *Store) Remove(ctx context.Context, id uuid.UUID) (bool, error) {
	current, err := s.List(ctx)
	if err != nil {
		return false, err
	}

	filtered := current[:0]
	for _, m := range current {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}
	if len(filtered) == len(current) {
		return false, nil
	}
	return true, s.write(ctx, filtered)
}

func (s *Store) write(ctx context.Context, meds []Medication) error {
	if meds == nil {
		meds = []Medication{}
	}
	data, err := json.Marshal(meds)
	if err != nil {
		return fmt.Errorf("marshal medications: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write medications: %w", err)
	}
	return nil
}
