package provider

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/booking"
)

// Maccabi's feed carries an explicit availability boolean and full start and
// end timestamps, with the branch already in canonical shape.
type maccabiSlot struct {
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

type maccabiFeed struct {
	data []byte
	log  *zap.Logger
}

func newMaccabiFeed(data []byte, log *zap.Logger) *maccabiFeed {
	return &maccabiFeed{data: data, log: log}
}

func (f *maccabiFeed) list() ([]booking.Slot, error) {
	var doc struct {
		Slots []maccabiSlot `json:"slots"`
	}
	if err := json.Unmarshal(f.data, &doc); err != nil {
		return nil, fmt.Errorf("parse maccabi feed: %w", err)
	}

	slots := make([]booking.Slot, 0, len(doc.Slots))
	for _, raw := range doc.Slots {
		start, err := time.Parse(time.RFC3339, raw.StartTime)
		if err != nil {
			f.log.Warn("maccabi slot has bad start time, skipping",
				zap.String("slot_id", raw.SlotID),
				zap.Error(err))
			continue
		}

		end := start.Add(DefaultSlotDuration)
		if raw.EndTime != "" {
			parsed, err := time.Parse(time.RFC3339, raw.EndTime)
			if err != nil {
				f.log.Warn("maccabi slot has bad end time, using default duration",
					zap.String("slot_id", raw.SlotID),
					zap.Error(err))
			} else {
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
