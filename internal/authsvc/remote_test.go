package authsvc_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/apperr"
	"github.com/Goofygiraffe06/authscreen/internal/authsvc"
	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemote(t *testing.T, h http.HandlerFunc) *authsvc.Remote {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return authsvc.NewRemote(authsvc.RemoteConfig{BaseURL: srv.URL + "/", Timeout: time.Second}, srv.Client())
}

func TestRemote_Login(t *testing.T) {
	var got models.Credentials
	r := newRemote(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/api/login", req.URL.Path)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Equal(t, "req-1", req.Header.Get(middleware.RequestIDHeader))
		assert.NoError(t, json.NewDecoder(req.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"username":"alice","email":"alice@example.com"}`))
	})

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	u, err := r.Login(ctx, models.Credentials{Username: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, models.Credentials{Username: "alice", Password: "secret"}, got)
}

func TestRemote_RegisterAndReset(t *testing.T) {
	paths := make(chan string, 3)
	r := newRemote(t, func(w http.ResponseWriter, req *http.Request) {
		paths <- req.URL.Path
		if req.URL.Path == "/api/register" {
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":1,"username":"bob"}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	u, err := r.Register(ctx, models.RegistrationRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	require.NoError(t, r.RequestPasswordReset(ctx, models.PasswordResetRequest{Email: "bob@example.com"}))
	require.NoError(t, r.ResetPassword(ctx, models.NewPasswordRequest{Token: "t", Password: "secret2"}))

	assert.Equal(t, "/api/register", <-paths)
	assert.Equal(t, "/api/forgot-password", <-paths)
	assert.Equal(t, "/api/reset-password", <-paths)
}

func TestRemote_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"bad"}`, want: apperr.ErrInvalidCredentials},
		{name: "conflict", status: http.StatusConflict, want: apperr.ErrUserExists},
		{name: "duplicate as bad request", status: http.StatusBadRequest, body: `{"error":"User already exists"}`, want: apperr.ErrUserExists},
		{name: "gone", status: http.StatusGone, want: apperr.ErrInvalidToken},
		{name: "bad gateway", status: http.StatusBadGateway, want: apperr.ErrUnavailable},
		{name: "unavailable", status: http.StatusServiceUnavailable, want: apperr.ErrUnavailable},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, want: apperr.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRemote(t, func(w http.ResponseWriter, req *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := r.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRemote_StatusErrorCarriesMessage(t *testing.T) {
	r := newRemote(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"El email no es válido"}`))
	})

	err := r.RequestPasswordReset(context.Background(), models.PasswordResetRequest{Email: "nope"})
	var se *apperr.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "El email no es válido", se.Message)
	assert.Equal(t, "El email no es válido", apperr.UserMessage(err))
}

func TestRemote_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-release:
		case <-req.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := authsvc.NewRemote(authsvc.RemoteConfig{BaseURL: srv.URL, Timeout: 30 * time.Millisecond}, srv.Client())
	_, err := r.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, apperr.ErrTimeout)
}

func TestRemote_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := authsvc.NewRemote(authsvc.RemoteConfig{BaseURL: url, Timeout: time.Second}, nil)
	_, err := r.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestRemote_CanceledIsNotTimeout(t *testing.T) {
	r := newRemote(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Login(ctx, models.Credentials{Username: "a", Password: "b"})
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
	assert.NotErrorIs(t, err, apperr.ErrTimeout)
}
