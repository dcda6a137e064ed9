package provider

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/booking"
)

// Clalit's feed exposes a status enum instead of a boolean, a single
// slotDateTime with no end, and nests the branch under "location" with site
// fields. Only status "Open" counts as available.
type clalitSlot struct {
	SlotID       string `json:"slotId"`
	DoctorID     string `json:"doctorId"`
	SlotDateTime string `json:"slotDateTime"`
	Status       string `json:"status"`
	Location     struct {
		SiteCode string `json:"siteCode"`
		SiteName string `json:"siteName"`
		Address  string `json:"address"`
		City     string `json:"city"`
	} `json:"location"`
}

const clalitStatusOpen = "Open"

type clalitFeed struct {
	data []byte
	log  *zap.Logger
}

func newClalitFeed(data []byte, log *zap.Logger) *clalitFeed {
	return &clalitFeed{data: data, log: log}
}

func (f *clalitFeed) list() ([]booking.Slot, error) {
	var doc struct {
		Slots []clalitSlot `json:"slots"`
	}
	if err := json.Unmarshal(f.data, &doc); err != nil {
		return nil, fmt.Errorf("parse clalit feed: %w", err)
	}

	slots := make([]booking.Slot, 0, len(doc.Slots))
	for _, raw := range doc.Slots {
		start, err := time.Parse(time.RFC3339, raw.SlotDateTime)
		if err != nil {
			f.log.Warn("clalit slot has bad slotDateTime, skipping",
				zap.String("slot_id", raw.SlotID),
				zap.Error(err))
			continue
		}

		slots = append(slots, booking.Slot{
			SlotID:    raw.SlotID,
			DoctorID:  raw.DoctorID,
			StartTime: start,
			EndTime:   start.Add(DefaultSlotDuration),
			Branch: booking.Clinic{
				ID:      raw.Location.SiteCode,
				Name:    raw.Location.SiteName,
				Address: raw.Location.Address,
				City:    raw.Location.City,
			},
			Available: raw.Status == clalitStatusOpen,
		})
	}

	return slots, nil
}
