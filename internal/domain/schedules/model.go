package schedules

import "time"

// Frequency define cada cuánto se toma la medicación.
// @Enum daily, weekly, asNeeded
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyAsNeeded Frequency = "asNeeded"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyAsNeeded:
		return true
	default:
		return false
	}
}

// Status lo escribe el dispensador al resolver la dosis.
// @Enum scheduled, taken, missed
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusTaken     Status = "taken"
	StatusMissed    Status = "missed"
)

// Resolved indica si la dosis ya fue tomada u omitida.
func (s Status) Resolved() bool {
	return s == StatusTaken || s == StatusMissed
}

const (
	MinTotalDoses = 1
	MaxTotalDoses = 14
)

// MedicationSchedule es una entrada de medication_schedules/{id}.
type MedicationSchedule struct {
	ID string

	Name         string
	Frequency    Frequency
	Times        []string // HH:MM
	Instructions string
	StartDate    string // YYYY-MM-DD
	EndDate      string // opcional

	TotalDoses      int
	RefillThreshold int
	DosesLeft       int

	// NextDoseTime queda en cero si el valor remoto falta o no parsea.
	NextDoseTime time.Time
	Completed    bool
	Status       Status
}

// Pending: no completada ni resuelta por el dispositivo.
func (m MedicationSchedule) Pending() bool {
	return !m.Completed && !m.Status.Resolved()
}

// NeedsRefill: quedan tantas dosis como el umbral de recarga (o menos).
func (m MedicationSchedule) NeedsRefill() bool {
	return m.RefillThreshold > 0 && m.DosesLeft <= m.RefillThreshold
}
