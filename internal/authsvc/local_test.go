package authsvc_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/apperr"
	"github.com/Goofygiraffe06/authscreen/internal/authsvc"
	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/store"
	"github.com/Goofygiraffe06/authscreen/store/ephemeral"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type sentMail struct {
	to, link string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, link})
	return nil
}

// inlineDispatcher runs mail tasks on the caller's goroutine.
type inlineDispatcher struct {
	err error
}

func (d inlineDispatcher) SubmitMail(fn func(ctx context.Context)) error {
	if d.err != nil {
		return d.err
	}
	fn(context.Background())
	return nil
}

func newLocal(t *testing.T, d authsvc.Dispatcher) (*authsvc.Local, *fakeMailer) {
	t.Helper()
	users, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	tokens := ephemeral.NewTokenStore(100)
	t.Cleanup(func() {
		tokens.Close()
		users.Close()
	})

	mailer := &fakeMailer{}
	l, err := authsvc.NewLocal(users, tokens, mailer, d, authsvc.LocalConfig{
		ResetURL:      "https://shop.example/auth/reset",
		ResetTokenTTL: time.Minute,
		BcryptCost:    bcrypt.MinCost,
	})
	require.NoError(t, err)
	return l, mailer
}

func register(t *testing.T, l *authsvc.Local) models.User {
	t.Helper()
	u, err := l.Register(context.Background(), models.RegistrationRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	return u
}

func TestLocal_RegisterThenLogin(t *testing.T) {
	l, _ := newLocal(t, inlineDispatcher{})
	ctx := context.Background()

	u := register(t, l)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)

	got, err := l.Login(ctx, models.Credentials{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestLocal_LoginFailures(t *testing.T) {
	l, _ := newLocal(t, inlineDispatcher{})
	register(t, l)
	ctx := context.Background()

	_, err := l.Login(ctx, models.Credentials{Username: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = l.Login(ctx, models.Credentials{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLocal_RegisterDuplicate(t *testing.T) {
	l, _ := newLocal(t, inlineDispatcher{})
	register(t, l)
	ctx := context.Background()

	_, err := l.Register(ctx, models.RegistrationRequest{Username: "alice", Email: "new@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrUserExists)

	_, err = l.Register(ctx, models.RegistrationRequest{Username: "alice2", Email: "alice@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrUserExists)
}

func TestLocal_PasswordResetFlow(t *testing.T) {
	l, mailer := newLocal(t, inlineDispatcher{})
	register(t, l)
	ctx := context.Background()

	require.NoError(t, l.RequestPasswordReset(ctx, models.PasswordResetRequest{Email: "alice@example.com"}))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "alice@example.com", mailer.sent[0].to)

	link, err := url.Parse(mailer.sent[0].link)
	require.NoError(t, err)
	assert.Equal(t, "shop.example", link.Host)
	token := link.Query().Get("token")
	require.NotEmpty(t, token)

	require.NoError(t, l.ResetPassword(ctx, models.NewPasswordRequest{Token: token, Password: "newsecret"}))

	_, err = l.Login(ctx, models.Credentials{Username: "alice", Password: "newsecret"})
	require.NoError(t, err)
	_, err = l.Login(ctx, models.Credentials{Username: "alice", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	// Tokens are single use.
	err = l.ResetPassword(ctx, models.NewPasswordRequest{Token: token, Password: "another1"})
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestLocal_ResetUnknownEmailIsSilent(t *testing.T) {
	l, mailer := newLocal(t, inlineDispatcher{})

	require.NoError(t, l.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Email: "nobody@example.com"}))
	assert.Empty(t, mailer.sent)
}

func TestLocal_ResetUnknownToken(t *testing.T) {
	l, _ := newLocal(t, inlineDispatcher{})

	err := l.ResetPassword(context.Background(), models.NewPasswordRequest{Token: "nope", Password: "secret1"})
	assert.ErrorIs(t, err, apperr.ErrInvalidToken)
}

func TestLocal_ResetMailNotQueued(t *testing.T) {
	l, mailer := newLocal(t, inlineDispatcher{err: errors.New("queue full")})
	register(t, l)

	err := l.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Email: "alice@example.com"})
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
	assert.Empty(t, mailer.sent)
}
