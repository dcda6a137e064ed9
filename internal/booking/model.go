package booking

import (
	"time"
)

// Provider is a healthcare organization offering appointment slots.
// Immutable reference data loaded from static configuration.
type Provider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Clinic is the branch a slot takes place at.
type Clinic struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

type Doctor struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Specialty string   `json:"specialty"`
	Clinics   []Clinic `json:"clinics,omitempty"`
}

// Slot is a bookable time window. Slots exist only transiently per provider
// fetch; once booked, only the snapshot inside an Appointment survives.
type Slot struct {
	SlotID    string    `json:"slot_id"`
	DoctorID  string    `json:"doctor_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Branch    Clinic    `json:"branch"`
	Available bool      `json:"available"`
}

// Appointment is the denormalized snapshot written to the ledger at the
// moment of booking.
type Appointment struct {
	Provider Provider  `json:"provider"`
	Doctor   Doctor    `json:"doctor"`
	Slot     Slot      `json:"slot"`
	BookedAt time.Time `json:"booked_at"`
}

// DayKey returns the UTC calendar day a slot starts on, in YYYY-MM-DD form.
func (s Slot) DayKey() string {
	return s.StartTime.UTC().Format("2006-01-02")
}

type EventLog struct {
	ID        int64
	EventType string
	SlotID    *string
	Payload   []byte
	CreatedAt time.Time
}
