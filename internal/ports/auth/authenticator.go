package auth

import (
	"context"
	"errors"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator valida email/password contra el directorio de usuarios.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (Claims, error)
}
