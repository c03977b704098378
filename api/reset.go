package api

import (
	"errors"
	"net/http"

	"github.com/Goofygiraffe06/authscreen/internal/apperr"
	"github.com/Goofygiraffe06/authscreen/internal/authsvc"
	"github.com/Goofygiraffe06/authscreen/internal/logging"
	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/internal/redact"
	"github.com/Goofygiraffe06/authscreen/internal/ui"
	"github.com/Goofygiraffe06/authscreen/internal/validation"
)

// ResetPageHandler renders the new-password form for the token in the query.
func ResetPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		data := ui.ResetPageData{Token: token}
		if token == "" {
			data.Error = apperr.UserMessage(apperr.ErrInvalidToken)
		}
		respondHTML(w, http.StatusOK, ui.ResetPage(data))
	}
}

// ResetPasswordHandler completes a reset synchronously; there is no screen state
// to hold a pending flag for this page.
func ResetPasswordHandler(resetter authsvc.PasswordResetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Formulario no válido", http.StatusBadRequest)
			return
		}
		req := models.NewPasswordRequest{
			Token:    r.PostFormValue("token"),
			Password: r.PostFormValue("password"),
		}

		if res := validation.Validate(req); !res.OK {
			respondHTML(w, http.StatusUnprocessableEntity, ui.ResetPage(ui.ResetPageData{Token: req.Token, Errors: res.Fields}))
			return
		}

		if err := resetter.ResetPassword(r.Context(), req); err != nil {
			status := http.StatusBadGateway
			if errors.Is(err, apperr.ErrInvalidToken) {
				status = http.StatusGone
			}
			logging.WarnLog("Password reset failed [%s]: %v", redact.ID(req.Token), err)
			respondHTML(w, status, ui.ResetPage(ui.ResetPageData{Token: req.Token, Error: apperr.UserMessage(err)}))
			return
		}

		respondHTML(w, http.StatusOK, ui.ResetPage(ui.ResetPageData{Done: true}))
	}
}
