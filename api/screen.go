package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/mutation"
	"github.com/Goofygiraffe06/authscreen/internal/notify"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
	"github.com/Goofygiraffe06/authscreen/internal/view"
	"github.com/Goofygiraffe06/authscreen/store/ephemeral"
	"github.com/google/uuid"
)

// ScreenCookie identifies the browser's auth screen.
const ScreenCookie = "cc_auth_screen"

var errNoScreen = errors.New("screen store full")

// Screens mounts one view.Controller per browser and finds it again on later requests.
type Screens struct {
	store    *ephemeral.ScreenStore
	registry *notify.Registry
	svc      view.AuthService
	exec     mutation.Executor
	ttl      time.Duration
	secure   bool
}

func NewScreens(store *ephemeral.ScreenStore, registry *notify.Registry, svc view.AuthService, exec mutation.Executor, ttl time.Duration, secureCookies bool) *Screens {
	return &Screens{store: store, registry: registry, svc: svc, exec: exec, ttl: ttl, secure: secureCookies}
}

// Bind returns the request's screen, mounting a fresh one when the cookie is
// missing or the screen has expired.
func (s *Screens) Bind(w http.ResponseWriter, r *http.Request) (string, *view.Controller, error) {
	if ck, err := r.Cookie(ScreenCookie); err == nil && ck.Value != "" {
		if c, ok := s.store.Get(ck.Value); ok {
			return ck.Value, c, nil
		}
	}

	id := uuid.NewString()
	c := view.NewController(s.svc, s.exec, view.WithSettledHook(func(view.Form, error) {
		s.registry.Notify(id)
	}))
	if err := s.store.Put(id, c); err != nil {
		logging.WarnLog("Screen mount failed: %v", err)
		return "", nil, errNoScreen
	}
	logging.DebugLog("Screen mounted [%s]", redact.ID(id))

	http.SetCookie(w, &http.Cookie{
		Name:     ScreenCookie,
		Value:    id,
		Path:     "/auth",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id, c, nil
}

// Unmount discards a screen and clears its cookie.
func (s *Screens) Unmount(w http.ResponseWriter, id string) {
	s.store.Delete(id)
	http.SetCookie(w, &http.Cookie{
		Name:     ScreenCookie,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	logging.DebugLog("Screen unmounted [%s]", redact.ID(id))
}

// Wait blocks until the screen's pending submission settles or timeout elapses.
func (s *Screens) Wait(r *http.Request, id string, c *view.Controller, timeout time.Duration) {
	s.registry.Wait(r.Context(), id, timeout, func() bool {
		return c.Snapshot().AnyPending()
	})
}
