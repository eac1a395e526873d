package patients

import (
	"encoding/json"
	"errors"
	"net/http"

	"automed-dashboard/internal/middleware"
	"automed-dashboard/internal/platform/logger"
	"automed-dashboard/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/patients/{patientID}", func(pr chi.Router) {
		pr.Use(middleware.RequireAuth)
		pr.Use(middleware.RequireRole(auth.RoleCaregiver))

		pr.Get("/", getPatientHandler(svc, log))
		pr.Patch("/", updatePatientHandler(svc, log))

		pr.Get("/device", linkStatusHandler(svc, log))
		pr.Post("/device/link", linkDeviceHandler(svc, log))
		pr.Post("/device/unlink", unlinkDeviceHandler(svc, log))
	})
}

type patientResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// updatePatientRequest: los campos omitidos no se tocan.
type updatePatientRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type linkStatusResponse struct {
	PatientID       string `json:"patient_id"`
	DeviceID        string `json:"device_id"`
	Linked          bool   `json:"linked"`
	LinkedPatientID string `json:"linked_patient_id,omitempty"`
}

// getPatientHandler godoc
// @Summary Perfil del paciente
// @Description Si no existe se crea con el nombre y email por defecto.
// @Tags patients
// @Produce json
// @Security BasicAuth
// @Param patientID path string true "patient id"
// @Success 200 {object} patientResponse
// @Failure 403 {string} string "forbidden"
// @Router /patients/{patientID} [get]
func getPatientHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, log, "get patient failed", err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// updatePatientHandler godoc
// @Summary Editar perfil del paciente
// @Tags patients
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param patientID path string true "patient id"
// @Param body body updatePatientRequest true "campos a cambiar"
// @Success 200 {object} patientResponse
// @Failure 400 {string} string "invalid input"
// @Router /patients/{patientID} [patch]
func updatePatientHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "patientID"), Patch{Name: req.Name, Email: req.Email})
		if err != nil {
			writeError(w, log, "update patient failed", err)
			return
		}
		writeJSON(w, http.StatusOK, toPatientResponse(p))
	}
}

// linkStatusHandler godoc
// @Summary Estado de vínculo con el dispositivo
// @Tags patients
// @Produce json
// @Security BasicAuth
// @Param patientID path string true "patient id"
// @Success 200 {object} linkStatusResponse
// @Router /patients/{patientID}/device [get]
func linkStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.LinkStatus(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, log, "link status failed", err)
			return
		}
		writeJSON(w, http.StatusOK, toLinkStatusResponse(st))
	}
}

// linkDeviceHandler godoc
// @Summary Vincular dispositivo
// @Tags patients
// @Produce json
// @Security BasicAuth
// @Param patientID path string true "patient id"
// @Success 200 {object} linkStatusResponse
// @Failure 502 {string} string "store unavailable"
// @Router /patients/{patientID}/device/link [post]
func linkDeviceHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Link(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, log, "link device failed", err)
			return
		}
		log.Info("device linked", map[string]any{"device_id": st.DeviceID, "patient_id": st.PatientID})
		writeJSON(w, http.StatusOK, toLinkStatusResponse(st))
	}
}

// unlinkDeviceHandler godoc
// @Summary Desvincular dispositivo
// @Tags patients
// @Produce json
// @Security BasicAuth
// @Param patientID path string true "patient id"
// @Success 200 {object} linkStatusResponse
// @Failure 409 {string} string "device not linked"
// @Router /patients/{patientID}/device/unlink [post]
func unlinkDeviceHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Unlink(r.Context(), chi.URLParam(r, "patientID"))
		if err != nil {
			writeError(w, log, "unlink device failed", err)
			return
		}
		log.Info("device unlinked", map[string]any{"device_id": st.DeviceID, "patient_id": st.PatientID})
		writeJSON(w, http.StatusOK, toLinkStatusResponse(st))
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, msg string, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "patient not found", http.StatusNotFound)
	case errors.Is(err, ErrNotLinked):
		http.Error(w, "device not linked", http.StatusConflict)
	default:
		log.Error(msg, map[string]any{"err": err})
		http.Error(w, "store unavailable", http.StatusBadGateway)
	}
}

func toPatientResponse(p Patient) patientResponse {
	return patientResponse{ID: p.ID, Name: p.Name, Email: p.Email}
}

func toLinkStatusResponse(st LinkStatus) linkStatusResponse {
	return linkStatusResponse{
		PatientID:       st.PatientID,
		DeviceID:        st.DeviceID,
		Linked:          st.Linked,
		LinkedPatientID: st.LinkedPatientID,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
