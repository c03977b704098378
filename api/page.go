package api

import (
	"net/http"
	"time"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
	"github.com/Goofygiraffe06/authscreen/internal/session"
	"github.com/Goofygiraffe06/authscreen/internal/ui"
	"github.com/Goofygiraffe06/authscreen/internal/view"
)

// PageConfig carries what the screen page needs beyond the screen itself.
type PageConfig struct {
	Sessions      *session.Issuer
	HomePath      string
	WaitTimeout   time.Duration
	SecureCookies bool
}

// AuthPageHandler renders the screen; browsers that already hold a valid session
// skip it. With ?wait=1 a pending page first waits for its submission to settle.
// Once a login or registration has succeeded the screen is unmounted and the
// browser is sent home with a session cookie.
func AuthPageHandler(screens *Screens, cfg PageConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie(session.CookieName); err == nil {
			if claims, err := cfg.Sessions.Parse(ck.Value); err == nil {
				logging.DebugLog("Session already active [%s]", redact.Username(claims.Username))
				http.Redirect(w, r, cfg.HomePath, http.StatusSeeOther)
				return
			}
		}

		id, c, err := screens.Bind(w, r)
		if err != nil {
			http.Error(w, "Servidor ocupado, inténtalo más tarde", http.StatusServiceUnavailable)
			return
		}

		if tab, ok := view.ParseTab(r.URL.Query().Get("tab")); ok {
			c.SelectTab(tab)
		}
		if r.URL.Query().Get("wait") == "1" {
			screens.Wait(r, id, c, cfg.WaitTimeout)
		}

		snap := c.Snapshot()
		if snap.Authenticated != nil {
			completeAuthentication(w, r, screens, id, *snap.Authenticated, cfg)
			return
		}

		respondHTML(w, http.StatusOK, ui.AuthPage(snap, ui.PageOptions{RefreshSeconds: 1}))
	}
}

func completeAuthentication(w http.ResponseWriter, r *http.Request, screens *Screens, id string, u models.User, cfg PageConfig) {
	token, exp, err := cfg.Sessions.Issue(u)
	if err != nil {
		http.Error(w, "No se pudo iniciar la sesión", http.StatusInternalServerError)
		return
	}
	session.SetCookie(w, token, exp, cfg.SecureCookies)
	screens.Unmount(w, id)

	logging.InfoLog("Session started [%s], navigating to %s", redact.Username(u.Username), cfg.HomePath)
	http.Redirect(w, r, cfg.HomePath, http.StatusSeeOther)
}
