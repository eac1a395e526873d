package history

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{"Medication Name", "Status", "Scheduled Time", "Actual Time", "Doses Taken", "Notes"}

const displayLayout = "2006-01-02 15:04:05"

// ExportFileName: medication_history_YYYY-MM-DD.csv (fecha UTC).
func ExportFileName(now time.Time) string {
	return "medication_history_" + now.UTC().Format("2006-01-02") + ".csv"
}

// WriteCSV escribe el historial; campos vacíos salen como
// Unknown / unknown / Not specified / 1 / "".
func WriteCSV(w io.Writer, records []DoseRecord, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		name := r.MedicationName
		if name == "" {
			name = "Unknown"
		}
		status := r.Status
		if status == "" {
			status = "unknown"
		}
		scheduled := r.ScheduledTime
		if scheduled == "" {
			scheduled = "Not specified"
		}
		actual := r.ActualTimeRaw
		if !r.ActualTime.IsZero() {
			actual = r.ActualTime.In(loc).Format(displayLayout)
		}
		doses := r.DosesTaken
		if doses == 0 {
			doses = 1
		}

		if err := cw.Write([]string{name, status, scheduled, actual, strconv.Itoa(doses), r.Notes}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
