package history

import "time"

// DoseRecord es una entrada de medication_history/{id}. La escribe el dispositivo;
// el dashboard sólo la lee.
type DoseRecord struct {
	ID             string
	MedicationName string
	Status         string
	ScheduledTime  string

	// ActualTime es el valor parseado de ActualTimeRaw; cero si no parsea.
	ActualTime    time.Time
	ActualTimeRaw string

	// DosesTaken ya trae el default (1) si el campo faltaba.
	DosesTaken int
	Notes      string
}

// Usage: dosis tomadas por medicación en el día y en la semana en curso.
type Usage struct {
	Daily  map[string]int
	Weekly map[string]int
}
