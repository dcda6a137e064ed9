package settings

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/kv"
)

// Store persists the settings document as JSON under one fixed key.
type Store struct {
	kv  kv.Store
	key string
	log *zap.Logger
}

func NewStore(store kv.Store, key string, log *zap.Logger) *Store {
	return &Store{kv: store, key: key, log: log}
}

// Load returns the saved settings. A missing or unreadable document falls
// back to defaults.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if !ok {
		return Defaults(), nil
	}

	var cfg Settings
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		s.log.Warn("settings document corrupt, using defaults",
			zap.String("key", s.key),
			zap.Error(err))
		return Defaults(), nil
	}
	return cfg, nil
}

func (s *Store) Save(ctx context.Context, cfg Settings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
