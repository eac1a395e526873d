package schedules

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"automed-dashboard/internal/middleware"
	"automed-dashboard/internal/platform/logger"
	"automed-dashboard/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	caregiver := middleware.RequireRole(auth.RoleCaregiver)

	r.Route("/schedules", func(sr chi.Router) {
		sr.Use(middleware.RequireAuth)

		sr.Get("/", listSchedulesHandler(svc, log))
		sr.Get("/{scheduleID}", getScheduleHandler(svc, log))

		// Escritura sólo cuidador
		sr.With(caregiver).Post("/", createScheduleHandler(svc, log))
		sr.With(caregiver).Put("/{scheduleID}", updateScheduleHandler(svc, log))
		sr.With(caregiver).Delete("/{scheduleID}", deleteScheduleHandler(svc, log))
	})
}

// scheduleRequest es el formulario de alta/edición de una medicación.
type scheduleRequest struct {
	Name            string    `json:"name"`
	Frequency       Frequency `json:"frequency" enums:"daily,weekly,asNeeded"`
	Times           []string  `json:"times"` // HH:MM
	Instructions    string    `json:"instructions"`
	StartDate       string    `json:"start_date"` // YYYY-MM-DD
	EndDate         string    `json:"end_date"`   // opcional
	TotalDoses      int       `json:"total_doses"`
	RefillThreshold int       `json:"refill_threshold"`
}

// scheduleResponse representa una entrada del calendario de medicación.
type scheduleResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Frequency       Frequency  `json:"frequency"`
	Times           []string   `json:"times"`
	Instructions    string     `json:"instructions"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date,omitempty"`
	TotalDoses      int        `json:"total_doses"`
	RefillThreshold int        `json:"refill_threshold"`
	DosesLeft       int        `json:"doses_left"`
	NextDoseTime    *time.Time `json:"next_dose_time,omitempty"`
	Completed       bool       `json:"completed"`
	Status          Status     `json:"status"`
	NeedsRefill     bool       `json:"needs_refill"`
}

// listSchedulesHandler godoc
// @Summary Listar medicaciones
// @Description Devuelve el calendario completo ordenado por próxima dosis.
// @Tags schedules
// @Produce json
// @Security BasicAuth
// @Success 200 {array} scheduleResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "internal error"
// @Router /schedules [get]
func listSchedulesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			log.Error("list schedules failed", map[string]any{"err": err})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]scheduleResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toScheduleResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getScheduleHandler godoc
// @Summary Obtener medicación
// @Tags schedules
// @Produce json
// @Security BasicAuth
// @Param scheduleID path string true "ID de la medicación"
// @Success 200 {object} scheduleResponse
// @Failure 404 {string} string "schedule not found"
// @Router /schedules/{scheduleID} [get]
func getScheduleHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "scheduleID"))
		if err != nil {
			writeError(w, log, "get schedule failed", err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(m))
	}
}

// createScheduleHandler godoc
// @Summary Crear medicación
// @Description Valida el formulario (total_doses 1..14, refill_threshold 0..total_doses), calcula la próxima dosis y la agrega al calendario. Sólo cuidador.
// @Tags schedules
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param payload body scheduleRequest true "Formulario de medicación"
// @Success 201 {object} scheduleResponse
// @Failure 400 {string} string "mensaje de validación"
// @Failure 403 {string} string "forbidden"
// @Failure 502 {string} string "store unavailable"
// @Router /schedules [post]
func createScheduleHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			writeError(w, log, "create schedule failed", err)
			return
		}
		writeJSON(w, http.StatusCreated, toScheduleResponse(m))
	}
}

// updateScheduleHandler godoc
// @Summary Editar medicación
// @Description Misma validación que el alta; conserva el id, mezcla los campos en el documento y lo vuelve a armar (doses_left = total_doses, status scheduled). Sólo cuidador.
// @Tags schedules
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param scheduleID path string true "ID de la medicación"
// @Param payload body scheduleRequest true "Formulario de medicación"
// @Success 200 {object} scheduleResponse
// @Failure 400 {string} string "mensaje de validación"
// @Failure 404 {string} string "schedule not found"
// @Router /schedules/{scheduleID} [put]
func updateScheduleHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "scheduleID"), req.toInput())
		if err != nil {
			writeError(w, log, "update schedule failed", err)
			return
		}
		writeJSON(w, http.StatusOK, toScheduleResponse(m))
	}
}

// deleteScheduleHandler godoc
// @Summary Eliminar medicación
// @Tags schedules
// @Security BasicAuth
// @Param scheduleID path string true "ID de la medicación"
// @Success 204
// @Failure 404 {string} string "schedule not found"
// @Router /schedules/{scheduleID} [delete]
func deleteScheduleHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "scheduleID")); err != nil {
			writeError(w, log, "delete schedule failed", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (req scheduleRequest) toInput() Input {
	return Input{
		Name:            req.Name,
		Frequency:       req.Frequency,
		Times:           req.Times,
		Instructions:    req.Instructions,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalDoses:      req.TotalDoses,
		RefillThreshold: req.RefillThreshold,
	}
}

func toScheduleResponse(m MedicationSchedule) scheduleResponse {
	out := scheduleResponse{
		ID:              m.ID,
		Name:            m.Name,
		Frequency:       m.Frequency,
		Times:           m.Times,
		Instructions:    m.Instructions,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		TotalDoses:      m.TotalDoses,
		RefillThreshold: m.RefillThreshold,
		DosesLeft:       m.DosesLeft,
		Completed:       m.Completed,
		Status:          m.Status,
		NeedsRefill:     m.NeedsRefill(),
	}
	if out.Times == nil {
		out.Times = []string{}
	}
	if !m.NextDoseTime.IsZero() {
		t := m.NextDoseTime
		out.NextDoseTime = &t
	}
	return out
}

func writeError(w http.ResponseWriter, log logger.Logger, msg string, err error) {
	switch {
	case errors.Is(err, ErrTotalDosesRange), errors.Is(err, ErrRefillThresholdRange), errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "schedule not found", http.StatusNotFound)
	default:
		log.Error(msg, map[string]any{"err": err})
		http.Error(w, "store unavailable", http.StatusBadGateway)
	}
}

// writeJSON se repite por módulo; todavía no hay paquete de helpers HTTP.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
