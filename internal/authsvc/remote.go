package authsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/apperr"
	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/go-chi/chi/v5/middleware"
)

// RemoteConfig holds the storefront API location and per-call timeouts.
type RemoteConfig struct {
	BaseURL string
	// Timeout bounds each call, including reading the response.
	Timeout time.Duration
}

// Remote calls the storefront's JSON auth endpoints.
type Remote struct {
	cfg    RemoteConfig
	client *http.Client
}

// NewRemote builds a client. hc may be nil; per-request timeouts come from cfg.
func NewRemote(cfg RemoteConfig, hc *http.Client) *Remote {
	if hc == nil {
		hc = &http.Client{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Remote{cfg: cfg, client: hc}
}

func (r *Remote) Login(ctx context.Context, creds models.Credentials) (models.User, error) {
	var u models.User
	err := r.post(ctx, "/api/login", creds, &u)
	return u, err
}

func (r *Remote) Register(ctx context.Context, req models.RegistrationRequest) (models.User, error) {
	var u models.User
	err := r.post(ctx, "/api/register", req, &u)
	return u, err
}

func (r *Remote) RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error {
	return r.post(ctx, "/api/forgot-password", req, nil)
}

func (r *Remote) ResetPassword(ctx context.Context, req models.NewPasswordRequest) error {
	return r.post(ctx, "/api/reset-password", req, nil)
}

func (r *Remote) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		req.Header.Set(middleware.RequestIDHeader, reqID)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		logging.WarnLog("Upstream %s failed after %v: %v", path, duration, err)
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	logging.DebugLog("Upstream %s -> %d (%v)", path, resp.StatusCode, duration)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	return decodeError(resp)
}

func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.ErrTimeout
	}
	// Cancellation, connection refused, DNS errors.
	return fmt.Errorf("%w: %v", apperr.ErrUnavailable, err)
}

// decodeError maps upstream status codes onto the shared failure kinds. The
// body may be JSON ({"message"} or {"error"}) or plain text.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	msg := errorMessage(raw)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return apperr.ErrInvalidCredentials
	case http.StatusConflict:
		return apperr.ErrUserExists
	case http.StatusGone:
		return apperr.ErrInvalidToken
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return apperr.ErrUnavailable
	case http.StatusGatewayTimeout:
		return apperr.ErrTimeout
	}
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "already exists") {
		return apperr.ErrUserExists
	}
	return &apperr.StatusError{StatusCode: resp.StatusCode, Message: msg}
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
