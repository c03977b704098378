package api

import (
	"net/http"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/authsvc"
	"github.com/Goofygiraffe06/authscreen/internal/ui"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is everything the router needs.
type Deps struct {
	Screens *Screens
	Page    PageConfig
	// Resetter is nil when the backend cannot complete resets itself.
	Resetter authsvc.PasswordResetter

	MaxBodyBytes   int64
	RateLimit      int
	RateWindow     time.Duration
	AllowedOrigins []string
}

// NewRouter wires the auth screen routes.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if d.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(d.MaxBodyBytes))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, ui.PathAuth, http.StatusFound)
	})

	r.Get(ui.PathAuth, AuthPageHandler(d.Screens, d.Page))
	r.Post(ui.PathShowForgot, ShowForgotPasswordHandler(d.Screens))
	r.Post(ui.PathShowLogin, ShowLoginRegisterHandler(d.Screens))
	r.Post(ui.PathTab, SelectTabHandler(d.Screens))

	r.Group(func(r chi.Router) {
		// Without configured origins the state endpoint stays same-origin only.
		if len(d.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   d.AllowedOrigins,
				AllowedMethods:   []string{http.MethodGet},
				AllowedHeaders:   []string{"Accept"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		r.Get("/auth/state", StateHandler(d.Screens))
	})

	r.Group(func(r chi.Router) {
		if d.RateLimit > 0 {
			r.Use(httprate.LimitByIP(d.RateLimit, d.RateWindow))
		}
		r.Post(ui.PathLogin, LoginHandler(d.Screens))
		r.Post(ui.PathRegister, RegisterHandler(d.Screens))
		r.Post(ui.PathForgotPassword, ForgotPasswordHandler(d.Screens))

		if d.Resetter != nil {
			r.Get(ui.PathReset, ResetPageHandler())
			r.Post(ui.PathReset, ResetPasswordHandler(d.Resetter))
		}
	})

	return r
}
