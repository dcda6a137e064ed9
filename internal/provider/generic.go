package provider

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/booking"
)

// Meuhedet and Leumit publish canonical-shaped feeds. End times are still
// optional, so the default duration applies when absent.
type genericSlot struct {
	SlotID      string `json:"slotId"`
	DoctorID    string `json:"doctorId"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
	Branch      struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Address string `json:"address"`
		City    string `json:"city"`
	} `json:"branch"`
}

type genericFeed struct {
	providerID string
	data       []byte
	log        *zap.Logger
}

func newGenericFeed(providerID string, data []byte, log *zap.Logger) *genericFeed {
	return &genericFeed{providerID: providerID, data: data, log: log}
}

func (f *genericFeed) list() ([]booking.Slot, error) {
	var doc struct {
		Slots []genericSlot `json:"slots"`
	}
	if err := json.Unmarshal(f.data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s feed: %w", f.providerID, err)
	}

	slots := make([]booking.Slot, 0, len(doc.Slots))
	for _, raw := range doc.Slots {
		start, err := time.Parse(time.RFC3339, raw.StartTime)
		if err != nil {
			f.log.Warn("slot has bad start time, skipping",
				zap.String("provider_id", f.providerID),
				zap.String("slot_id", raw.SlotID),
				zap.Error(err))
			continue
		}

		end := start.Add(DefaultSlotDuration)
		if raw.EndTime != "" {
			if parsed, err := time.Parse(time.RFC3339, raw.EndTime); err == nil {
				end = parsed
			}
		}

		slots = append(slots, booking.Slot{
			SlotID:    raw.SlotID,
			DoctorID:  raw.DoctorID,
			StartTime: start,
			EndTime:   end,
			Branch: booking.Clinic{
				ID:      raw.Branch.ID,
				Name:    raw.Branch.Name,
				Address: raw.Branch.Address,
				City:    raw.Branch.City,
			},
			Available: raw.IsAvailable,
		})
	}

	return slots, nil
}
