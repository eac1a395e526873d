package history

import (
	"encoding/json"
	"net/http"
	"time"

	"automed-dashboard/internal/middleware"
	"automed-dashboard/internal/platform/logger"
	"automed-dashboard/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/history", func(hr chi.Router) {
		hr.Use(middleware.RequireAuth)

		hr.Get("/", listHistoryHandler(svc, log))
		hr.Get("/usage", usageHandler(svc, log))

		// Exportación sólo cuidador
		hr.With(middleware.RequireRole(auth.RoleCaregiver)).Get("/export", exportHandler(svc, log))
	})
}

// doseRecordResponse representa una toma registrada por el dispensador.
type doseRecordResponse struct {
	ID             string     `json:"id"`
	MedicationName string     `json:"medication_name"`
	Status         string     `json:"status"`
	ScheduledTime  string     `json:"scheduled_time"`
	ActualTime     *time.Time `json:"actual_time,omitempty"`
	ActualTimeRaw  string     `json:"actual_time_raw"`
	DosesTaken     int        `json:"doses_taken"`
	Notes          string     `json:"notes"`
}

// usageResponse: totales por medicación del día y de la semana (domingo a sábado).
type usageResponse struct {
	Daily  map[string]int `json:"daily"`
	Weekly map[string]int `json:"weekly"`
}

// listHistoryHandler godoc
// @Summary Historial de tomas
// @Description Historial reportado por el dispositivo, más reciente primero.
// @Tags history
// @Produce json
// @Security BasicAuth
// @Success 200 {array} doseRecordResponse
// @Failure 401 {string} string "unauthorized"
// @Router /history [get]
func listHistoryHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			log.Error("list history failed", map[string]any{"err": err})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]doseRecordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toDoseRecordResponse(rec))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// usageHandler godoc
// @Summary Uso diario y semanal
// @Tags history
// @Produce json
// @Security BasicAuth
// @Success 200 {object} usageResponse
// @Router /history/usage [get]
func usageHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.Usage(r.Context())
		if err != nil {
			log.Error("usage failed", map[string]any{"err": err})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, usageResponse{Daily: u.Daily, Weekly: u.Weekly})
	}
}

// exportHandler godoc
// @Summary Exportar historial (CSV)
// @Description Columnas: Medication Name, Status, Scheduled Time, Actual Time, Doses Taken, Notes. Sólo cuidador.
// @Tags history
// @Produce text/csv
// @Security BasicAuth
// @Success 200 {string} string "archivo CSV"
// @Failure 403 {string} string "forbidden"
// @Router /history/export [get]
func exportHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, name, err := svc.ExportCSV(r.Context())
		if err != nil {
			log.Error("export history failed", map[string]any{"err": err})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func toDoseRecordResponse(rec DoseRecord) doseRecordResponse {
	out := doseRecordResponse{
		ID:             rec.ID,
		MedicationName: rec.MedicationName,
		Status:         rec.Status,
		ScheduledTime:  rec.ScheduledTime,
		ActualTimeRaw:  rec.ActualTimeRaw,
		DosesTaken:     rec.DosesTaken,
		Notes:          rec.Notes,
	}
	if !rec.ActualTime.IsZero() {
		t := rec.ActualTime
		out.ActualTime = &t
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
