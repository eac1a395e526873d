package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"automed-dashboard/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

// User es una entrada del directorio fijo de credenciales.
type User struct {
	ID        string
	Email     string
	Password  string // en claro sólo al construir el directorio
	Name      string
	Role      auth.Role
	PatientID string
}

// DefaultUsers: las dos cuentas de demostración del dashboard.
func DefaultUsers(patientID string) []User {
	return []User{
		{ID: "1", Email: "patient@example.com", Password: "patient123", Name: "John Doe", Role: auth.RolePatient, PatientID: patientID},
		{ID: "2", Email: "caregiver@example.com", Password: "caregiver123", Name: "Dr. Smith", Role: auth.RoleCaregiver, PatientID: patientID},
	}
}

type entry struct {
	claims auth.Claims
	hash   []byte
}

// Directory implementa auth.Authenticator sobre una lista fija; sólo guarda hashes bcrypt.
type Directory struct {
	byEmail map[string]entry
}

var _ auth.Authenticator = (*Directory)(nil)

func NewDirectory(users []User, cost int) (*Directory, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	d := &Directory{byEmail: make(map[string]entry, len(users))}
	for _, u := range users {
		email := normalizeEmail(u.Email)
		if email == "" || u.Password == "" || u.ID == "" {
			return nil, fmt.Errorf("credentials: incomplete user %q", u.Email)
		}
		if _, dup := d.byEmail[email]; dup {
			return nil, fmt.Errorf("credentials: duplicate email %q", email)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("credentials: hash password: %w", err)
		}
		d.byEmail[email] = entry{
			claims: auth.Claims{
				UserID:    u.ID,
				Email:     email,
				Name:      u.Name,
				Role:      u.Role,
				PatientID: u.PatientID,
			},
			hash: hash,
		}
	}
	return d, nil
}

func (d *Directory) Authenticate(ctx context.Context, email, password string) (auth.Claims, error) {
	e, ok := d.byEmail[normalizeEmail(email)]
	if !ok {
		return auth.Claims{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(e.hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return auth.Claims{}, auth.ErrInvalidCredentials
		}
		return auth.Claims{}, err
	}
	return e.claims, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
