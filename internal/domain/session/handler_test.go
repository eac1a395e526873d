package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"automed-dashboard/internal/middleware"
	"automed-dashboard/internal/platform/logger"
	"automed-dashboard/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

type fakeAuthenticator struct{}

func (fakeAuthenticator) Authenticate(ctx context.Context, email, password string) (auth.Claims, error) {
	if email == "caregiver@example.com" && password == "caregiver123" {
		return auth.Claims{UserID: "2", Email: email, Name: "Dr. Smith", Role: auth.RoleCaregiver, PatientID: "patient1"}, nil
	}
	return auth.Claims{}, auth.ErrInvalidCredentials
}

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.AuthContext(fakeAuthenticator{}))
	RegisterRoutes(r, fakeAuthenticator{}, logger.Nop())
	return r
}

func TestLogin(t *testing.T) {
	h := newRouter()

	cases := []struct {
		body string
		want int
	}{
		{`{"email":"caregiver@example.com","password":"caregiver123"}`, http.StatusOK},
		{`{"email":"caregiver@example.com","password":"nope"}`, http.StatusUnauthorized},
		{`{"email":"","password":"x"}`, http.StatusBadRequest},
		{`{`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.body)))
		if rr.Code != tc.want {
			t.Fatalf("body %s: expected %d, got %d", tc.body, tc.want, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/login",
		strings.NewReader(`{"email":"caregiver@example.com","password":"caregiver123"}`)))
	var got userResponse
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Role != auth.RoleCaregiver || got.Name != "Dr. Smith" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestMe(t *testing.T) {
	h := newRouter()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.SetBasicAuth("caregiver@example.com", "caregiver123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"role":"caregiver"`) {
		t.Fatalf("unexpected /me response %d %s", rr.Code, rr.Body.String())
	}
}
