// Package authsvc provides the auth service adapters behind the screen: Remote
// talks to the storefront API, Local keeps accounts in sqlite.
package authsvc

import (
	"context"

	"github.com/Goofygiraffe06/authscreen/internal/models"
)

// Service is the contract both adapters fulfil.
type Service interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	Register(ctx context.Context, req models.RegistrationRequest) (models.User, error)
	RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error
}

// PasswordResetter completes a reset started by RequestPasswordReset.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, req models.NewPasswordRequest) error
}

var (
	_ Service          = (*Remote)(nil)
	_ PasswordResetter = (*Remote)(nil)
	_ Service          = (*Local)(nil)
	_ PasswordResetter = (*Local)(nil)
)
