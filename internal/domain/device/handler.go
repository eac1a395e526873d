package device

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
	r.Route("/device", func(dr chi.Router) {
		dr.Use(middleware.RequireAuth)

		dr.Get("/", telemetryHandler(svc, log))
		dr.With(middleware.RequireRole(auth.RoleCaregiver)).Post("/dispense", dispenseHandler(svc, log))
	})
}

type telemetryResponse struct {
	Status     string `json:"status"`
	Clock      string `json:"clock"`
	RFIDStatus string `json:"rfid_status"`
	RFIDUID    string `json:"rfid_uid"`
}

type dispenseResponse struct {
	RequestedAt time.Time `json:"requested_at"`
	Value       string    `json:"value"`
}

// telemetryHandler godoc
// @Summary Estado del dispositivo
// @Description Estado de medicación, reloj RTC y lector RFID.
// @Tags device
// @Produce json
// @Security BasicAuth
// @Success 200 {object} telemetryResponse
// @Router /device [get]
func telemetryHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Telemetry(r.Context())
		if err != nil {
			log.Error("read telemetry failed", map[string]any{"err": err})
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, telemetryResponse{
			Status:     t.Status,
			Clock:      t.Clock,
			RFIDStatus: t.RFIDStatus,
			RFIDUID:    t.RFIDUID,
		})
	}
}

// dispenseHandler godoc
// @Summary Dispensado manual
// @Description Escribe la hora actual en manual_dispense_request. Sólo cuidador.
// @Tags device
// @Produce json
// @Security BasicAuth
// @Success 202 {object} dispenseResponse
// @Failure 403 {string} string "forbidden"
// @Failure 502 {string} string "store unavailable"
// @Router /device/dispense [post]
func dispenseHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := svc.RequestManualDispense(r.Context())
		if err != nil {
			log.Error("manual dispense failed", map[string]any{"err": err})
			http.Error(w, "store unavailable", http.StatusBadGateway)
			return
		}

		claims, _ := middleware.GetClaims(r.Context())
		log.Info("manual dispense requested", map[string]any{"user_id": claims.UserID, "at": req.Raw})

		writeJSON(w, http.StatusAccepted, dispenseResponse{RequestedAt: req.RequestedAt, Value: req.Raw})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
