package view

import (
	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/internal/mutation"
)

// Mode is the top-level form selection. Exactly one is active.
type Mode int

const (
	ModeLoginRegister Mode = iota
	ModeForgotPassword
)

func (m Mode) String() string {
	if m == ModeForgotPassword {
		return "forgot_password"
	}
	return "login_or_register"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Tab selects between the login and register forms inside ModeLoginRegister.
type Tab int

const (
	TabLogin Tab = iota
	TabRegister
)

func (t Tab) String() string {
	if t == TabRegister {
		return "register"
	}
	return "login"
}

func (t Tab) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseTab accepts "login" or "register".
func ParseTab(s string) (Tab, bool) {
	switch s {
	case "login":
		return TabLogin, true
	case "register":
		return TabRegister, true
	}
	return TabLogin, false
}

// Form names one of the three forms on the screen.
type Form string

const (
	FormLogin          Form = "login"
	FormRegister       Form = "register"
	FormForgotPassword Form = "forgot_password"
)

// FormView is the render-ready state of one form.
type FormView[T any] struct {
	Values T                 `json:"values"`
	Errors map[string]string `json:"errors,omitempty"`
	State  mutation.State    `json:"state"`
	// Pending mirrors State == Pending; the submit control is disabled while set.
	Pending bool   `json:"pending"`
	Error   string `json:"error,omitempty"`
	Notice  string `json:"notice,omitempty"`
}

// SubmitDisabled reports whether the submit control must be disabled.
func (f FormView[T]) SubmitDisabled() bool {
	return f.Pending
}

// FieldError returns the validation message for a field, or "".
func (f FormView[T]) FieldError(field string) string {
	return f.Errors[field]
}

// Snapshot is an immutable copy of a controller's state.
type Snapshot struct {
	Mode           Mode                                  `json:"mode"`
	Tab            Tab                                   `json:"tab"`
	Login          FormView[models.Credentials]          `json:"login"`
	Register       FormView[models.RegistrationRequest]  `json:"register"`
	ForgotPassword FormView[models.PasswordResetRequest] `json:"forgotPassword"`
	// Authenticated is set once a login or registration has succeeded.
	Authenticated *models.User `json:"-"`
}

// AnyPending reports whether any form has a submission in flight.
func (s Snapshot) AnyPending() bool {
	return s.Login.Pending || s.Register.Pending || s.ForgotPassword.Pending
}

// ForgotPasswordVisible reports whether the forgot-password form is the rendered one.
func (s Snapshot) ForgotPasswordVisible() bool {
	return s.Mode == ModeForgotPassword
}
