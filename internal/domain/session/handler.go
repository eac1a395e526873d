package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"automed-dashboard/internal/middleware"
	"automed-dashboard/internal/platform/logger"
	"automed-dashboard/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes: login contra la lista fija de credenciales. No emite token;
// el cliente manda Basic auth en cada request.
func RegisterRoutes(r chi.Router, authn auth.Authenticator, log logger.Logger) {
	r.Post("/login", loginHandler(authn, log))
	r.With(middleware.RequireAuth).Get("/me", meHandler())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      auth.Role `json:"role"`
	PatientID string    `json:"patient_id,omitempty"`
}

// loginHandler godoc
// @Summary Login
// @Description Valida email y contraseña. Devuelve el usuario, sin token ni sesión.
// @Tags session
// @Accept json
// @Produce json
// @Param body body loginRequest true "credenciales"
// @Success 200 {object} userResponse
// @Failure 401 {string} string "Invalid email or password"
// @Router /login [post]
func loginHandler(authn auth.Authenticator, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			http.Error(w, "email and password are required", http.StatusBadRequest)
			return
		}

		claims, err := authn.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				log.Error("authenticate failed", map[string]any{"err": err})
			}
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}

		log.Info("login", map[string]any{"user_id": claims.UserID, "role": string(claims.Role)})
		writeJSON(w, http.StatusOK, toUserResponse(claims))
	}
}

// meHandler godoc
// @Summary Usuario actual
// @Tags session
// @Produce json
// @Security BasicAuth
// @Success 200 {object} userResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me [get]
func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		writeJSON(w, http.StatusOK, toUserResponse(claims))
	}
}

func toUserResponse(c auth.Claims) userResponse {
	return userResponse{
		ID:        c.UserID,
		Email:     c.Email,
		Name:      c.Name,
		Role:      c.Role,
		PatientID: c.PatientID,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
