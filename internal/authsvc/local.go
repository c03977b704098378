package authsvc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/apperr"
	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
	"github.com/Goofygiraffe06/authscreen/store"
	"github.com/Goofygiraffe06/authscreen/store/ephemeral"
	"golang.org/x/crypto/bcrypt"
)

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}

// Dispatcher runs mail delivery in the background.
type Dispatcher interface {
	SubmitMail(fn func(ctx context.Context)) error
}

// LocalConfig configures the sqlite-backed service.
type LocalConfig struct {
	ResetURL      string
	ResetTokenTTL time.Duration
	BcryptCost    int
}

// Local authenticates against accounts stored in sqlite.
type Local struct {
	users  *store.SQLiteStore
	tokens *ephemeral.TokenStore
	mailer Mailer
	async  Dispatcher
	cfg    LocalConfig

	// dummyHash keeps unknown-user logins as slow as wrong-password ones.
	dummyHash []byte
}

func NewLocal(users *store.SQLiteStore, tokens *ephemeral.TokenStore, mailer Mailer, async Dispatcher, cfg LocalConfig) (*Local, error) {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 30 * time.Minute
	}
	if _, err := url.Parse(cfg.ResetURL); err != nil {
		return nil, fmt.Errorf("reset url: %w", err)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &Local{users: users, tokens: tokens, mailer: mailer, async: async, cfg: cfg, dummyHash: dummy}, nil
}

func (l *Local) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	usernameHash := redact.Username(creds.Username)

	u, found := l.users.GetUserByUsername(ctx, creds.Username)
	hash := l.dummyHash
	if found {
		hash = []byte(u.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)); err != nil || !found {
		logging.WarnLog("Login failed: invalid credentials [%s]", usernameHash)
		return models.User{}, apperr.ErrInvalidCredentials
	}

	logging.InfoLog("Login success [%s]", usernameHash)
	return u, nil
}

func (l *Local) Register(ctx context.Context, req models.RegistrationRequest) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	emailHash := redact.Email(email)
	usernameHash := redact.Username(req.Username)

	if l.users.Exists(ctx, req.Username, email) {
		logging.WarnLog("Registration failed: user exists [%s][%s]", emailHash, usernameHash)
		return models.User{}, apperr.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), l.cfg.BcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := l.users.AddUser(ctx, models.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return models.User{}, apperr.ErrUserExists
		}
		logging.ErrorLog("Registration failed: database error [%s][%s]: %v", emailHash, usernameHash, err)
		return models.User{}, err
	}

	logging.InfoLog("Registration completed [%s][%s]", emailHash, usernameHash)
	return u, nil
}

// RequestPasswordReset always succeeds for unknown addresses so the response
// does not reveal which emails have accounts.
func (l *Local) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	emailHash := redact.Email(email)

	if _, found := l.users.GetUserByEmail(ctx, email); !found {
		logging.InfoLog("Password reset requested for unknown email [%s]", emailHash)
		return nil
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	if err := l.tokens.Set(token, email, l.cfg.ResetTokenTTL); err != nil {
		if errors.Is(err, ephemeral.ErrStoreFull) {
			return apperr.ErrUnavailable
		}
		return err
	}

	link := l.resetLink(token)
	err = l.async.SubmitMail(func(ctx context.Context) {
		if err := l.mailer.SendPasswordReset(ctx, email, link); err != nil {
			logging.ErrorLog("Password reset mail failed [%s]: %v", emailHash, err)
			return
		}
		logging.InfoLog("Password reset mail sent [%s]", emailHash)
	})
	if err != nil {
		l.tokens.Take(token)
		logging.ErrorLog("Password reset mail not queued [%s]: %v", emailHash, err)
		return apperr.ErrUnavailable
	}
	return nil
}

func (l *Local) ResetPassword(ctx context.Context, req models.NewPasswordRequest) error {
	email, ok := l.tokens.Take(req.Token)
	if !ok {
		logging.WarnLog("Password reset failed: unknown token [%s]", redact.ID(req.Token))
		return apperr.ErrInvalidToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), l.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := l.users.UpdatePasswordHash(ctx, email, string(hash)); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return apperr.ErrInvalidToken
		}
		return err
	}

	logging.InfoLog("Password reset completed [%s]", redact.Email(email))
	return nil
}

func (l *Local) resetLink(token string) string {
	u, _ := url.Parse(l.cfg.ResetURL)
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
