// Package ui renders the auth screen as server-side HTML.
package ui

import (
	"fmt"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"

	"github.com/Goofygiraffe06/authscreen/internal/models"
	"github.com/Goofygiraffe06/authscreen/internal/view"
)

// Routes the rendered forms post to.
const (
	PathAuth           = "/auth"
	PathLogin          = "/auth/login"
	PathRegister       = "/auth/register"
	PathForgotPassword = "/auth/forgot-password"
	PathShowForgot     = "/auth/mode/forgot"
	PathShowLogin      = "/auth/mode/login"
	PathTab            = "/auth/tab"
	PathReset          = "/auth/reset"
)

// WaitURL is where a pending page refreshes to.
const WaitURL = PathAuth + "?wait=1"

// PageOptions tweaks rendering.
type PageOptions struct {
	// RefreshSeconds is the auto-refresh period while a submission is pending.
	RefreshSeconds int
}

const styles = `
body{margin:0;font-family:system-ui,sans-serif;color:#1f2937}
.screen{min-height:100vh;display:grid;grid-template-columns:1fr}
@media(min-width:768px){.screen{grid-template-columns:1fr 1fr}.hero{display:flex!important}}
.pane{display:flex;align-items:center;justify-content:center;padding:2rem}
.card{width:100%;max-width:28rem;border:1px solid #e5e7eb;border-radius:.5rem;padding:1.5rem}
.tab-panel{display:flex;flex-direction:column}
.tabs{order:-1;display:grid;grid-template-columns:1fr 1fr;margin-bottom:1rem}
.tabs button{border-radius:0;color:inherit;background:#f3f4f6}
.tabs button.active{background:#fff;font-weight:600}
form{display:flex;flex-direction:column;gap:1rem}
label{display:flex;flex-direction:column;gap:.25rem;font-size:.875rem}
input{padding:.5rem;border:1px solid #d1d5db;border-radius:.375rem}
button{padding:.5rem;border-radius:.375rem;border:0;background:#7c2d12;color:#fff;cursor:pointer}
button.ghost{background:transparent;color:inherit}
button[disabled]{opacity:.5;cursor:not-allowed}
.field-error{color:#b91c1c;font-size:.8rem}
.alert{padding:.5rem;border-radius:.375rem;background:#fee2e2;color:#991b1b}
.notice{padding:.5rem;border-radius:.375rem;background:#dcfce7;color:#166534}
.hero{display:none;background:#fdf4ef;padding:2rem;flex-direction:column;align-items:center;justify-content:center}
`

// AuthPage renders the whole screen for a snapshot.
func AuthPage(s view.Snapshot, opts PageOptions) g.Node {
	var head []g.Node
	if s.AnyPending() {
		refresh := opts.RefreshSeconds
		if refresh <= 0 {
			refresh = 1
		}
		head = append(head, h.Meta(g.Attr("http-equiv", "refresh"), g.Attr("content", fmt.Sprintf("%d;url=%s", refresh, WaitURL))))
	}
	head = append(head, h.StyleEl(g.Raw(styles)))

	var content g.Node
	if s.ForgotPasswordVisible() {
		content = forgotPasswordForm(s.ForgotPassword)
	} else {
		content = loginRegisterTabs(s)
	}

	return c.HTML5(c.HTML5Props{
		Title:    "Acceso | Casa Comfort",
		Language: "es",
		Head:     head,
		Body: []g.Node{
			h.Div(h.Class("screen"),
				h.Div(h.Class("pane"),
					h.Div(h.Class("card"),
						h.H1(g.Text("Bienvenido a Casa Comfort")),
						h.P(g.Text("Inicia sesión o crea una cuenta para continuar")),
						content,
					),
				),
				hero(),
			),
		},
	})
}

func hero() g.Node {
	return h.Div(h.Class("hero"),
		h.H2(g.Text("Casa Comfort")),
		h.P(g.Text("Tu destino para encontrar los mejores productos para el hogar. "+
			"Regístrate para acceder a ofertas exclusivas y guardar tus productos favoritos.")),
	)
}

// FormNameField tells the tab switch which form's values it is carrying.
const FormNameField = "form_name"

// loginRegisterTabs renders the tab triggers as submit buttons of the visible
// form, so switching tabs carries the typed values along. They follow the form
// in tree order so Enter still submits the form itself.
func loginRegisterTabs(s view.Snapshot) g.Node {
	formID := "login-form"
	panel := loginForm(s.Login)
	if s.Tab == view.TabRegister {
		formID = "register-form"
		panel = registerForm(s.Register)
	}

	tabButton := func(t view.Tab, label string) g.Node {
		return h.Button(h.Type("submit"), g.Attr("form", formID),
			g.Attr("formaction", PathTab), g.Attr("formnovalidate"),
			h.Name("tab"), h.Value(t.String()),
			g.If(s.Tab == t, h.Class("active")),
			g.Text(label),
		)
	}

	return h.Div(h.Class("tab-panel"),
		panel,
		h.Nav(h.Class("tabs"),
			tabButton(view.TabLogin, "Iniciar Sesión"),
			tabButton(view.TabRegister, "Registrarse"),
		),
	)
}

func loginForm(f view.FormView[models.Credentials]) g.Node {
	return h.Form(h.Method("post"), h.Action(PathLogin), h.ID("login-form"),
		formName(view.FormLogin),
		status(f.Error, f.Notice),
		textField("login-username", "username", "Usuario", "text", f.Values.Username, f.FieldError("username")),
		passwordField("login-password", "Contraseña", f.FieldError("password")),
		submitButton("Iniciar Sesión", f.SubmitDisabled()),
		h.Button(h.Type("submit"), h.Class("ghost"), g.Attr("formaction", PathShowForgot), g.Attr("formnovalidate"),
			g.Text("¿Olvidaste tu contraseña?")),
	)
}

func registerForm(f view.FormView[models.RegistrationRequest]) g.Node {
	return h.Form(h.Method("post"), h.Action(PathRegister), h.ID("register-form"),
		formName(view.FormRegister),
		status(f.Error, f.Notice),
		textField("register-username", "username", "Usuario", "text", f.Values.Username, f.FieldError("username")),
		textField("register-email", "email", "Email", "email", f.Values.Email, f.FieldError("email")),
		passwordField("register-password", "Contraseña", f.FieldError("password")),
		submitButton("Registrarse", f.SubmitDisabled()),
	)
}

func forgotPasswordForm(f view.FormView[models.PasswordResetRequest]) g.Node {
	return h.Form(h.Method("post"), h.Action(PathForgotPassword), h.ID("forgot-password-form"),
		status(f.Error, f.Notice),
		emailField("forgot-email", f.Values.Email, f.FieldError("email")),
		submitButton("Enviar email de recuperación", f.SubmitDisabled()),
		h.Button(h.Type("submit"), h.Class("ghost"), g.Attr("formaction", PathShowLogin), g.Attr("formnovalidate"),
			g.Text("Volver al inicio de sesión")),
	)
}

func formName(f view.Form) g.Node {
	return h.Input(h.Type("hidden"), h.Name(FormNameField), h.Value(string(f)))
}
