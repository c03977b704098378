package api

import (
	"net/http"

	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/internal/view"
)

// stateResponse omits field values so passwords never leave the server.
type stateResponse struct {
	Mode           view.Mode `json:"mode"`
	Tab            view.Tab  `json:"tab"`
	Login          formState `json:"login"`
	Register       formState `json:"register"`
	ForgotPassword formState `json:"forgotPassword"`
	Authenticated  bool      `json:"authenticated"`
}

type formState struct {
	State          string            `json:"state"`
	SubmitDisabled bool              `json:"submitDisabled"`
	Errors         map[string]string `json:"errors,omitempty"`
	Error          string            `json:"error,omitempty"`
	Notice         string            `json:"notice,omitempty"`
}

func toFormState[T any](f view.FormView[T]) formState {
	return formState{
		State:          f.State.String(),
		SubmitDisabled: f.SubmitDisabled(),
		Errors:         f.Errors,
		Error:          f.Error,
		Notice:         f.Notice,
	}
}

// StateHandler reports the screen's mode and per-form submission state as JSON.
func StateHandler(screens *Screens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, c, err := screens.Bind(w, r)
		if err != nil {
			respondJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{Error: "Server busy, try again later"})
			return
		}
		s := c.Snapshot()
		respondJSON(w, http.StatusOK, stateResponse{
			Mode:           s.Mode,
			Tab:            s.Tab,
			Login:          toFormState(s.Login),
			Register:       toFormState(s.Register),
			ForgotPassword: toFormState(s.ForgotPassword),
			Authenticated:  s.Authenticated != nil,
		})
	}
}
