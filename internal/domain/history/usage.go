package history

import (
	"strings"
	"time"
)

// WeekStart es fijo: la semana arranca el domingo, sin depender del locale.
const WeekStart = time.Sunday

// timestampLayouts: lo que reportan el dispositivo y el dashboard web.
// Los layouts sin zona se interpretan en la zona local configurada.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2/1/2006 15:4:5",
}

// ParseTimestamp acepta RFC 3339 o los formatos locales de timestampLayouts.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayBounds: [medianoche local, +1 día).
func DayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

// WeekBounds: [domingo más reciente 00:00, +7 días).
func WeekBounds(now time.Time) (time.Time, time.Time) {
	today, _ := DayBounds(now)
	offset := (int(today.Weekday()) - int(WeekStart) + 7) % 7
	start := today.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// AggregateUsage suma dosesTaken por medicación según actualTime.
// Registros sin actualTime válido no entran en ningún bucket. La zona es la de now.
func AggregateUsage(records []DoseRecord, now time.Time) Usage {
	dayStart, dayEnd := DayBounds(now)
	weekStart, weekEnd := WeekBounds(now)

	u := Usage{Daily: map[string]int{}, Weekly: map[string]int{}}
	for _, r := range records {
		if r.ActualTime.IsZero() {
			continue
		}
		at := r.ActualTime
		if inRange(at, dayStart, dayEnd) {
			u.Daily[r.MedicationName] += r.DosesTaken
		}
		if inRange(at, weekStart, weekEnd) {
			u.Weekly[r.MedicationName] += r.DosesTaken
		}
	}
	return u
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
