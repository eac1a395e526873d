package dashboard

import (
	"encoding/json"
	"net/http"

	"automed-dashboard/internal/middleware"
	"automed-dashboard/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta la vista y, si ws no es nil, el stream en vivo.
func RegisterRoutes(r chi.Router, m *Mirror, ws http.Handler, log logger.Logger) {
	r.Route("/dashboard", func(dr chi.Router) {
		dr.Use(middleware.RequireAuth)

		dr.Get("/", getDashboardHandler(m, log))
		if ws != nil {
			dr.Method(http.MethodGet, "/ws", ws)
		}
	})
}

// getDashboardHandler godoc
// @Summary Vista del dashboard
// @Description Estado del dispositivo, próxima dosis con cuenta regresiva, dosis restantes, agenda de hoy y uso diario/semanal.
// @Description Los mismos datos se emiten por GET /dashboard/ws (topic "dashboard") en cada cambio.
// @Tags dashboard
// @Produce json
// @Security BasicAuth
// @Success 200 {object} viewResponse
// @Failure 401 {string} string "unauthorized"
// @Router /dashboard [get]
func getDashboardHandler(m *Mirror, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := m.View()
		log.Debug("dashboard view served", map[string]any{"status": v.Status, "countdown": v.Countdown})
		writeJSON(w, http.StatusOK, toViewResponse(v))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
