package api

import (
	"errors"
	"net/http"

	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
	"github.com/Goofygiraffe06/authscreen/internal/ui"
	"github.com/Goofygiraffe06/authscreen/internal/validation"
	"github.com/Goofygiraffe06/authscreen/internal/view"
)

// LoginHandler submits the login form.
func LoginHandler(screens *Screens) http.HandlerFunc {
	return submitHandler(screens, func(r *http.Request, c *view.Controller) (string, error) {
		creds := models.Credentials{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}
		return redact.Username(creds.Username), c.SubmitLogin(r.Context(), creds)
	})
}

// RegisterHandler submits the registration form.
func RegisterHandler(screens *Screens) http.HandlerFunc {
	return submitHandler(screens, func(r *http.Request, c *view.Controller) (string, error) {
		req := models.RegistrationRequest{
			Username: r.PostFormValue("username"),
			Email:    r.PostFormValue("email"),
			Password: r.PostFormValue("password"),
		}
		return redact.Email(req.Email), c.SubmitRegister(r.Context(), req)
	})
}

// ForgotPasswordHandler submits the password reset request form.
func ForgotPasswordHandler(screens *Screens) http.HandlerFunc {
	return submitHandler(screens, func(r *http.Request, c *view.Controller) (string, error) {
		req := models.PasswordResetRequest{Email: r.PostFormValue("email")}
		return redact.Email(req.Email), c.SubmitForgotPassword(r.Context(), req)
	})
}

type submitFunc func(r *http.Request, c *view.Controller) (subject string, err error)

// submitHandler parses the form, hands it to the screen and answers with a
// redirect back to the screen (browsers) or a JSON status (scripts).
func submitHandler(screens *Screens, submit submitFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			logging.WarnLog("Submit failed: unreadable form on %s: %v", r.URL.Path, err)
			if wantsJSON(r) {
				respondJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid form"})
				return
			}
			http.Error(w, "Formulario no válido", http.StatusBadRequest)
			return
		}

		_, c, err := screens.Bind(w, r)
		if err != nil {
			if wantsJSON(r) {
				respondJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Server busy, try again later"})
				return
			}
			http.Error(w, "Servidor ocupado, inténtalo más tarde", http.StatusServiceUnavailable)
			return
		}

		subject, err := submit(r, c)
		var verr *validation.Error
		switch {
		case err == nil:
			logging.InfoLog("Submit dispatched on %s [%s]", r.URL.Path, subject)
			if wantsJSON(r) {
				respondJSON(w, http.StatusAccepted, models.StatusResponse{Status: "pending"})
				return
			}
			http.Redirect(w, r, ui.WaitURL, http.StatusSeeOther)

		case errors.As(err, &verr):
			logging.WarnLog("Submit rejected on %s: validation error [%s]", r.URL.Path, subject)
			if wantsJSON(r) {
				respondJSON(w, http.StatusUnprocessableEntity, models.ValidationErrorResponse{Error: "Validation failed", Fields: verr.Fields})
				return
			}
			http.Redirect(w, r, ui.PathAuth, http.StatusSeeOther)

		case errors.Is(err, view.ErrSubmissionPending):
			logging.WarnLog("Submit rejected on %s: already pending [%s]", r.URL.Path, subject)
			if wantsJSON(r) {
				respondJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Submission pending"})
				return
			}
			http.Redirect(w, r, ui.WaitURL, http.StatusSeeOther)

		default:
			// The failure is already recorded on the form's mutation.
			logging.ErrorLog("Submit dispatch failed on %s [%s]: %v", r.URL.Path, subject, err)
			if wantsJSON(r) {
				respondJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Server busy, try again later"})
				return
			}
			http.Redirect(w, r, ui.PathAuth, http.StatusSeeOther)
		}
	}
}
