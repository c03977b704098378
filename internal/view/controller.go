// Package view implements the auth screen's presentation state: which of the
// login/register and forgot-password modes is showing, which tab is selected,
// and the independent field values, errors and submission state of each form.
package view

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"

	"github.com/Goofygiraffe06/authscreen/internal/apperr"
	"github.com/Goofygiraffe06/authscreen/internal/metrics"
	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/internal/mutation"
	"github.com/Goofygiraffe06/authscreen/internal/validation"
)

// AuthService is the external collaborator performing the actual authentication.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (models.User, error)
	Register(ctx context.Context, req models.RegistrationRequest) (models.User, error)
	RequestPasswordReset(ctx context.Context, req models.PasswordResetRequest) error
}

var (
	// ErrSubmissionPending is returned when the form already has a submission in flight.
	ErrSubmissionPending = errors.New("submission pending")
	// ErrInvalidForm is returned when local validation rejected the values.
	ErrInvalidForm = errors.New("form validation failed")
)

// ForgotPasswordNotice is shown once a reset request has been accepted.
const ForgotPasswordNotice = "Si el email está registrado, recibirás un enlace para restablecer tu contraseña"

type formState[T any] struct {
	values T
	errors map[string]string
}

// Controller owns one auth screen. All methods are safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	mode     Mode
	tab      Tab
	login    formState[models.Credentials]
	register formState[models.RegistrationRequest]
	forgot   formState[models.PasswordResetRequest]

	loginM    *mutation.Mutation[models.Credentials, models.User]
	registerM *mutation.Mutation[models.RegistrationRequest, models.User]
	forgotM   *mutation.Mutation[models.PasswordResetRequest, struct{}]

	onSettled func(Form, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithSettledHook is called from the worker goroutine each time a form's
// submission settles.
func WithSettledHook(fn func(Form, error)) Option {
	return func(c *Controller) { c.onSettled = fn }
}

// NewController mounts a screen with empty defaults: login/register mode, login tab.
func NewController(svc AuthService, exec mutation.Executor, opts ...Option) *Controller {
	c := &Controller{}
	for _, opt := range opts {
		opt(c)
	}

	c.loginM = mutation.New(string(FormLogin), exec, svc.Login,
		func(_ models.User, err error) { c.settled(FormLogin, err) })
	c.registerM = mutation.New(string(FormRegister), exec, svc.Register,
		func(_ models.User, err error) { c.settled(FormRegister, err) })
	c.forgotM = mutation.New(string(FormForgotPassword), exec,
		func(ctx context.Context, req models.PasswordResetRequest) (struct{}, error) {
			return struct{}{}, svc.RequestPasswordReset(ctx, req)
		},
		func(_ struct{}, err error) { c.settled(FormForgotPassword, err) })

	return c
}

func (c *Controller) settled(f Form, err error) {
	if c.onSettled != nil {
		c.onSettled(f, err)
	}
}

// ShowForgotPassword makes the forgot-password form the rendered one.
func (c *Controller) ShowForgotPassword() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeForgotPassword
}

// ShowLoginRegister returns to the login/register tabs. A settled reset request
// is cleared so its notice is not shown again on the next visit.
func (c *Controller) ShowLoginRegister() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = ModeLoginRegister
	c.forgotM.Reset()
}

// SelectTab switches tabs. Tabs are unreachable in forgot-password mode.
func (c *Controller) SelectTab(t Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeLoginRegister {
		return
	}
	c.tab = t
}

// SaveLoginDraft records login field values without submitting. Passwords are
// never retained.
func (c *Controller) SaveLoginDraft(creds models.Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.login.values = withoutLoginPassword(creds)
}

// SaveRegisterDraft records registration field values without submitting.
func (c *Controller) SaveRegisterDraft(req models.RegistrationRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.register.values = withoutRegisterPassword(req)
}

// SaveForgotDraft records the forgot-password email without submitting.
func (c *Controller) SaveForgotDraft(req models.PasswordResetRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forgot.values = req
}

// SubmitLogin dispatches a login when username and password are present. ctx
// supplies request-scoped values to the auth service call.
func (c *Controller) SubmitLogin(ctx context.Context, creds models.Credentials) error {
	creds.Username = strings.TrimSpace(creds.Username)
	return submit(ctx, c, FormLogin, &c.login, creds, withoutLoginPassword(creds), c.loginM)
}

// SubmitRegister dispatches a registration that passes the registration schema.
// On failure the schema's field messages are kept for rendering.
func (c *Controller) SubmitRegister(ctx context.Context, req models.RegistrationRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return submit(ctx, c, FormRegister, &c.register, req, withoutRegisterPassword(req), c.registerM)
}

// SubmitForgotPassword dispatches a reset request when an email is present. The
// address format is deliberately left to the auth service.
func (c *Controller) SubmitForgotPassword(ctx context.Context, req models.PasswordResetRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	return submit(ctx, c, FormForgotPassword, &c.forgot, req, req, c.forgotM)
}

func withoutLoginPassword(creds models.Credentials) models.Credentials {
	creds.Password = ""
	return creds
}

func withoutRegisterPassword(req models.RegistrationRequest) models.RegistrationRequest {
	req.Password = ""
	return req
}

// submit validates values and dispatches them. retained is what the form keeps
// for re-rendering.
func submit[T, R any](ctx context.Context, c *Controller, f Form, st *formState[T], values, retained T, m *mutation.Mutation[T, R]) error {
	c.mu.Lock()
	st.values = retained
	if m.Pending() {
		c.mu.Unlock()
		metrics.Submissions.WithLabelValues(string(f), metrics.OutcomePending).Inc()
		return ErrSubmissionPending
	}
	res := validation.Validate(values)
	if !res.OK {
		st.errors = res.Fields
		c.mu.Unlock()
		metrics.Submissions.WithLabelValues(string(f), metrics.OutcomeInvalid).Inc()
		return errors.Join(ErrInvalidForm, res.Err())
	}
	st.errors = nil
	c.mu.Unlock()

	if err := m.Mutate(ctx, values); err != nil {
		if errors.Is(err, mutation.ErrPending) {
			metrics.Submissions.WithLabelValues(string(f), metrics.OutcomePending).Inc()
			return ErrSubmissionPending
		}
		metrics.Submissions.WithLabelValues(string(f), metrics.OutcomeRejected).Inc()
		return err
	}
	metrics.Submissions.WithLabelValues(string(f), metrics.OutcomeDispatched).Inc()
	return nil
}

// Snapshot copies the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Mode:           c.mode,
		Tab:            c.tab,
		Login:          formView(c.login, c.loginM),
		Register:       formView(c.register, c.registerM),
		ForgotPassword: formView(c.forgot, c.forgotM),
	}
	if s.ForgotPassword.State == mutation.Succeeded {
		s.ForgotPassword.Notice = ForgotPasswordNotice
	}
	if u, ok := c.loginM.Result(); ok {
		s.Authenticated = &u
	} else if u, ok := c.registerM.Result(); ok {
		s.Authenticated = &u
	}
	return s
}

func formView[T, R any](st formState[T], m *mutation.Mutation[T, R]) FormView[T] {
	state := m.State()
	fv := FormView[T]{
		Values:  st.values,
		Errors:  maps.Clone(st.errors),
		State:   state,
		Pending: state == mutation.Pending,
	}
	if state == mutation.Failed {
		fv.Error = apperr.UserMessage(m.Err())
	}
	return fv
}
