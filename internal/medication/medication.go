package medication

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	UnitDay  = "day"
	UnitWeek = "week"
)

var ErrInvalidMedication = errors.New("invalid medication")

// Medication is one tracked drug with its dosing schedule: Amount units per
// dose, DoseCount doses every PeriodCount period units, for DurationCount
// duration units. The course expires at ExpiresAt and is pruned after that.
type Medication struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Amount        int       `json:"amount"`
	DoseCount     int       `json:"dose_count"`
	PeriodCount   int       `json:"period_count"`
	PeriodUnit    string    `json:"period_unit"` // day, week
	DurationCount int       `json:"duration_count"`
	DurationUnit  string    `json:"duration_unit"` // day, week
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func (m Medication) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMedication)
	}
	if m.Amount < 1 || m.DoseCount < 1 || m.PeriodCount < 1 || m.DurationCount < 1 {
		return fmt.Errorf("%w: amount, dose count, period and duration must be at least 1", ErrInvalidMedication)
	}
	switch m.PeriodUnit {
	case UnitDay, UnitWeek:
	default:
		return fmt.Errorf("%w: unknown period unit %q", ErrInvalidMedication, m.PeriodUnit)
	}
	switch m.DurationUnit {
	case UnitDay, UnitWeek:
	default:
		return fmt.Errorf("%w: unknown duration unit %q", ErrInvalidMedication, m.DurationUnit)
	}
	return nil
}

// durationDays is the course length in days.
func (m Medication) durationDays() int {
	if m.DurationUnit == UnitWeek {
		return m.DurationCount * 7
	}
	return m.DurationCount
}

// doseInterval is the spacing between doses within one period.
func (m Medication) doseInterval() time.Duration {
	period := time.Duration(m.PeriodCount) * 24 * time.Hour
	if m.PeriodUnit == UnitWeek {
		period *= 7
	}
	return period / time.Duration(m.DoseCount)
}
