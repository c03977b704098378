package api

import (
	"net/http"

	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/internal/ui"
	"github.com/Goofygiraffe06/authscreen/internal/view"
)

// ShowForgotPasswordHandler keeps whatever the login form held, then switches to
// the forgot-password form.
func ShowForgotPasswordHandler(screens *Screens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, c, err := screens.Bind(w, r)
		if err != nil {
			http.Error(w, "Servidor ocupado, inténtalo más tarde", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err == nil && r.PostForm.Has("username") {
			c.SaveLoginDraft(models.Credentials{Username: r.PostFormValue("username")})
		}
		c.ShowForgotPassword()
		http.Redirect(w, r, ui.PathAuth, http.StatusSeeOther)
	}
}

// ShowLoginRegisterHandler keeps the forgot-password email, then returns to the tabs.
func ShowLoginRegisterHandler(screens *Screens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, c, err := screens.Bind(w, r)
		if err != nil {
			http.Error(w, "Servidor ocupado, inténtalo más tarde", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err == nil && r.PostForm.Has("email") {
			c.SaveForgotDraft(models.PasswordResetRequest{Email: r.PostFormValue("email")})
		}
		c.ShowLoginRegister()
		http.Redirect(w, r, ui.PathAuth, http.StatusSeeOther)
	}
}

// SelectTabHandler keeps the values of the form the tab button was pressed in,
// then switches to the requested tab.
func SelectTabHandler(screens *Screens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, c, err := screens.Bind(w, r)
		if err != nil {
			http.Error(w, "Servidor ocupado, inténtalo más tarde", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err == nil {
			switch view.Form(r.PostFormValue(ui.FormNameField)) {
			case view.FormLogin:
				c.SaveLoginDraft(models.Credentials{Username: r.PostFormValue("username")})
			case view.FormRegister:
				c.SaveRegisterDraft(models.RegistrationRequest{
					Username: r.PostFormValue("username"),
					Email:    r.PostFormValue("email"),
				})
			}
		}
		if t, ok := view.ParseTab(r.PostFormValue("tab")); ok {
			c.SelectTab(t)
		}
		http.Redirect(w, r, ui.PathAuth, http.StatusSeeOther)
	}
}
