package falldetect

import (
	"time"

	"github.com/google/uuid"
)

// Location is where the device was when the fall fired, when the platform
// could produce a fix.
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy,omitempty"`
	Provider  string    `json:"provider,omitempty"`
	LocatedAt time.Time `json:"located_at"`
}

// Event is one detected fall reported by the device's motion sensors.
type Event struct {
	ID           uuid.UUID `json:"id"`
	OccurredAt   time.Time `json:"occurred_at"`
	Acceleration float64   `json:"acceleration"`
	DurationMs   int64     `json:"duration_ms"`
	Location     *Location `json:"location,omitempty"`
	DeviceInfo   string    `json:"device_info,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
