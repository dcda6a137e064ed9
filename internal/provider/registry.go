package provider

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/booking"
)

// DefaultSlotDuration is synthesized onto slots whose source supplies only a
// start time.
const DefaultSlotDuration = 30 * time.Minute

//go:embed fixtures/*.json
var fixtureFS embed.FS

// slotFeed normalizes one provider's raw slot records into canonical slots.
// Each provider ships its own raw shape; the feed owns the mapping.
type slotFeed interface {
	list() ([]booking.Slot, error)
}

// Registry holds the static provider list and one feed per provider.
// It satisfies booking.SlotSource.
type Registry struct {
	providers []booking.Provider
	feeds     map[string]slotFeed
}

// NewRegistry loads the bundled provider configuration and wires the
// per-provider adapters.
func NewRegistry(log *zap.Logger) (*Registry, error) {
	raw, err := fixtureFS.ReadFile("fixtures/providers.json")
	if err != nil {
		return nil, fmt.Errorf("read provider config: %w", err)
	}

	var providers []booking.Provider
	if err := json.Unmarshal(raw, &providers); err != nil {
		return nil, fmt.Errorf("parse provider config: %w", err)
	}

	r := &Registry{
		providers: providers,
		feeds:     make(map[string]slotFeed, len(providers)),
	}

	for _, p := range providers {
		data, err := fixtureFS.ReadFile("fixtures/" + p.ID + ".json")
		if err != nil {
			return nil, fmt.Errorf("read slot fixture for %s: %w", p.ID, err)
		}

		switch p.ID {
		case "maccabi":
			r.feeds[p.ID] = newMaccabiFeed(data, log)
		case "clalit":
			r.feeds[p.ID] = newClalitFeed(data, log)
		default:
			r.feeds[p.ID] = newGenericFeed(p.ID, data, log)
		}
	}

	return r, nil
}

// Providers returns the static provider list in configuration order.
func (r *Registry) Providers() []booking.Provider {
	out := make([]booking.Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ListSlots returns the normalized slots for a provider, produced fresh per
// call. An unrecognized provider id yields an empty result, not an error.
func (r *Registry) ListSlots(ctx context.Context, providerID string) ([]booking.Slot, error) {
	feed, ok := r.feeds[providerID]
	if !ok {
		return nil, nil
	}
	slots, err := feed.list()
	if err != nil {
		return nil, fmt.Errorf("list slots for %s: %w", providerID, err)
	}
	return slots, nil
}
