// Package apperr holds the failure kinds shared by the auth service adapters and
// the screen, plus their user-facing wording.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnavailable        = errors.New("auth service unavailable")
	ErrTimeout            = errors.New("auth service timeout")
)

// StatusError is an upstream rejection that maps to no sentinel.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream error [%d]: %s", e.StatusCode, e.Message)
}

// UserMessage is the text shown beneath a form whose mutation failed.
func UserMessage(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Usuario o contraseña incorrectos"
	case errors.Is(err, ErrUserExists):
		return "El usuario o el email ya están registrados"
	case errors.Is(err, ErrInvalidToken):
		return "El enlace de recuperación no es válido o ha caducado"
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrTimeout):
		return "El servicio no está disponible, inténtalo de nuevo"
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	default:
		return "Algo salió mal, inténtalo de nuevo"
	}
}
