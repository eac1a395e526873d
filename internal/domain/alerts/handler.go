package alerts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"automed-dashboard/internal/middleware"
	"automed-dashboard/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/alerts", func(ar chi.Router) {
		ar.Use(middleware.RequireAuth)

		ar.Get("/", listAlertsHandler(svc, log))
		ar.Post("/", createAlertHandler(svc, log)) // ingesta del dispositivo
		ar.Post("/{id}/read", markReadHandler(svc, log))
		ar.Delete("/{id}", deleteAlertHandler(svc, log))
	})
}

type alertResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Read      bool       `json:"read"`
}

type countsResponse struct {
	All    int `json:"all"`
	Unread int `json:"unread"`
	Missed int `json:"missed"`
	Taken  int `json:"taken"`
	Refill int `json:"refill"`
}

type alertsPageResponse struct {
	Filter  string          `json:"filter"`
	Items   []alertResponse `json:"items"`
	Total   int             `json:"total"`
	HasMore bool            `json:"has_more"`
	Counts  countsResponse  `json:"counts"`
}

type createAlertRequest struct {
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// listAlertsHandler godoc
// @Summary Listar alertas
// @Description Más recientes primero. Sin all=true se corta en el límite configurado.
// @Tags alerts
// @Produce json
// @Security BasicAuth
// @Param filter query string false "all|unread|missed|taken|refill"
// @Param all query bool false "mostrar todas"
// @Success 200 {object} alertsPageResponse
// @Failure 400 {string} string "invalid filter"
// @Router /alerts [get]
func listAlertsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f, ok := ParseFilter(q.Get("filter"))
		if !ok {
			http.Error(w, "invalid filter", http.StatusBadRequest)
			return
		}
		all, _ := strconv.ParseBool(q.Get("all"))

		page, err := svc.List(r.Context(), f, all)
		if err != nil {
			log.Error("list alerts failed", map[string]any{"err": err})
			http.Error(w, "store unavailable", http.StatusBadGateway)
			return
		}

		out := alertsPageResponse{
			Filter:  string(f),
			Items:   make([]alertResponse, 0, len(page.Items)),
			Total:   page.Total,
			HasMore: page.HasMore,
			Counts:  countsResponse(page.Counts),
		}
		for _, a := range page.Items {
			out.Items = append(out.Items, toAlertResponse(a))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createAlertHandler godoc
// @Summary Registrar alerta
// @Tags alerts
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param body body createAlertRequest true "alerta"
// @Success 201 {object} alertResponse
// @Failure 400 {string} string "invalid input"
// @Router /alerts [post]
func createAlertHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			Type:      Type(req.Type),
			Message:   req.Message,
			Timestamp: req.Timestamp,
		})
		if err != nil {
			writeError(w, log, "create alert failed", err)
			return
		}
		writeJSON(w, http.StatusCreated, toAlertResponse(a))
	}
}

// markReadHandler godoc
// @Summary Marcar alerta como leída
// @Tags alerts
// @Security BasicAuth
// @Param id path string true "alert id"
// @Success 204
// @Failure 404 {string} string "alert not found"
// @Router /alerts/{id}/read [post]
func markReadHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, log, "mark alert read failed", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// deleteAlertHandler godoc
// @Summary Eliminar alerta
// @Tags alerts
// @Security BasicAuth
// @Param id path string true "alert id"
// @Success 204
// @Failure 404 {string} string "alert not found"
// @Router /alerts/{id} [delete]
func deleteAlertHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, log, "delete alert failed", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, msg string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "alert not found", http.StatusNotFound)
	default:
		log.Error(msg, map[string]any{"err": err})
		http.Error(w, "store unavailable", http.StatusBadGateway)
	}
}

func toAlertResponse(a Alert) alertResponse {
	out := alertResponse{
		ID:      a.ID,
		Type:    string(a.Type),
		Message: a.Message,
		Read:    a.Read,
	}
	if !a.Timestamp.IsZero() {
		ts := a.Timestamp
		out.Timestamp = &ts
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
