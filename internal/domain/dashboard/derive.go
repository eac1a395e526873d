package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"automed-dashboard/internal/domain/device"
	"automed-dashboard/internal/domain/schedules"
)

// Textos del contador cuando la dosis ya venció.
const (
	CountdownTaken    = "Taken"
	CountdownMissed   = "Missed"
	CountdownNow      = "Now"
	CountdownAwaiting = "Awaiting action"
)

// ResolveNextDose elige la próxima dosis pendiente posterior al reloj del dispositivo.
// Devuelve nil si el reloj no parsea o si ninguna entrada califica.
func ResolveNextDose(clock string, items []schedules.MedicationSchedule, loc *time.Location) *schedules.MedicationSchedule {
	if len(items) == 0 {
		return nil
	}
	deviceNow, err := device.ParseDeviceClock(clock, loc)
	if err != nil {
		return nil
	}

	upcoming := make([]schedules.MedicationSchedule, 0, len(items))
	for _, m := range items {
		if !m.Pending() || m.NextDoseTime.IsZero() {
			continue
		}
		if !m.NextDoseTime.After(deviceNow) {
			continue
		}
		upcoming = append(upcoming, m)
	}
	if len(upcoming) == 0 {
		return nil
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].NextDoseTime.Before(upcoming[j].NextDoseTime)
	})
	next := upcoming[0]
	return &next
}

// FormatCountdown usa el reloj local (now), no el del dispositivo.
func FormatCountdown(next, now time.Time, status string) string {
	diff := next.Sub(now)
	if diff <= 0 {
		switch schedules.Status(status) {
		case schedules.StatusTaken:
			return CountdownTaken
		case schedules.StatusMissed:
			return CountdownMissed
		case schedules.StatusScheduled:
			return CountdownNow
		default:
			return CountdownAwaiting
		}
	}

	hours := int(diff / time.Hour)
	minutes := int((diff % time.Hour) / time.Minute)
	if hours >= 24 {
		return fmt.Sprintf("%dd %dh %dm", hours/24, hours%24, minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// TotalDosesLeft suma dosesLeft de las entradas pendientes.
func TotalDosesLeft(items []schedules.MedicationSchedule) int {
	total := 0
	for _, m := range items {
		if m.Pending() && m.DosesLeft > 0 {
			total += m.DosesLeft
		}
	}
	return total
}

// TodaysSchedule: entradas cuya próxima dosis cae en la fecha local de now, en orden.
func TodaysSchedule(items []schedules.MedicationSchedule, now time.Time) []schedules.MedicationSchedule {
	y, mo, d := now.Date()
	out := make([]schedules.MedicationSchedule, 0)
	for _, m := range items {
		if m.NextDoseTime.IsZero() {
			continue
		}
		ty, tmo, td := m.NextDoseTime.In(now.Location()).Date()
		if ty == y && tmo == mo && td == d {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextDoseTime.Before(out[j].NextDoseTime)
	})
	return out
}

// DeviceDate toma sólo la parte DD/MM/YYYY del RTC.
func DeviceDate(clock string, loc *time.Location) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" || clock == device.LoadingClock {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	datePart := strings.Fields(clock)[0]
	t, err := time.ParseInLocation("2/1/2006", datePart, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
