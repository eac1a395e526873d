package dashboard

import (
	"time"

	"automed-dashboard/internal/domain/history"
	"automed-dashboard/internal/domain/schedules"
)

// View es el estado derivado que ve el dashboard.
type View struct {
	Status      string
	DeviceClock string
	// DeviceDate queda en cero mientras el RTC no reporta una fecha válida.
	DeviceDate     time.Time
	NextDose       *schedules.MedicationSchedule
	Countdown      string
	TotalDosesLeft int
	Today          []schedules.MedicationSchedule
	Usage          history.Usage
	UpdatedAt      time.Time
}

type doseResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	NextDoseTime *time.Time `json:"next_dose_time,omitempty"`
	DosesLeft    int        `json:"doses_left"`
	Completed    bool       `json:"completed"`
	Status       string     `json:"status"`
}

// viewResponse es el cuerpo de GET /dashboard y de cada evento del websocket.
type viewResponse struct {
	Status         string         `json:"status"`
	DeviceClock    string         `json:"device_clock"`
	DeviceDate     string         `json:"device_date,omitempty"` // YYYY-MM-DD
	NextDose       *doseResponse  `json:"next_dose,omitempty"`
	Countdown      string         `json:"countdown"`
	TotalDosesLeft int            `json:"total_doses_left"`
	Today          []doseResponse `json:"today"`
	DailyUsage     map[string]int `json:"daily_usage"`
	WeeklyUsage    map[string]int `json:"weekly_usage"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func toDoseResponse(m schedules.MedicationSchedule) doseResponse {
	out := doseResponse{
		ID:        m.ID,
		Name:      m.Name,
		DosesLeft: m.DosesLeft,
		Completed: m.Completed,
		Status:    string(m.Status),
	}
	if !m.NextDoseTime.IsZero() {
		t := m.NextDoseTime
		out.NextDoseTime = &t
	}
	return out
}

func toViewResponse(v View) viewResponse {
	out := viewResponse{
		Status:         v.Status,
		DeviceClock:    v.DeviceClock,
		Countdown:      v.Countdown,
		TotalDosesLeft: v.TotalDosesLeft,
		Today:          make([]doseResponse, 0, len(v.Today)),
		DailyUsage:     v.Usage.Daily,
		WeeklyUsage:    v.Usage.Weekly,
		UpdatedAt:      v.UpdatedAt,
	}
	if !v.DeviceDate.IsZero() {
		out.DeviceDate = v.DeviceDate.Format("2006-01-02")
	}
	if v.NextDose != nil {
		d := toDoseResponse(*v.NextDose)
		out.NextDose = &d
	}
	for _, m := range v.Today {
		out.Today = append(out.Today, toDoseResponse(m))
	}
	if out.DailyUsage == nil {
		out.DailyUsage = map[string]int{}
	}
	if out.WeeklyUsage == nil {
		out.WeeklyUsage = map[string]int{}
	}
	return out
}
