package ui

import (
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

// ResetPageData drives the "choose a new password" page linked from reset mails.
type ResetPageData struct {
	Token  string
	Errors map[string]string
	Error  string
	Done   bool
}

// ResetPage renders the new-password form, or the confirmation once done.
func ResetPage(d ResetPageData) g.Node {
	var content g.Node
	if d.Done {
		content = h.Div(
			status("", "Tu contraseña se ha actualizado"),
			h.P(h.A(h.Href(PathAuth+"?tab=login"), g.Text("Volver al inicio de sesión"))),
		)
	} else {
		content = h.Form(h.Method("post"), h.Action(PathReset), h.ID("reset-form"),
			status(d.Error, ""),
			h.Input(h.Type("hidden"), h.Name("token"), h.Value(d.Token)),
			fieldError(d.Errors["token"]),
			h.Label(h.For("reset-password"),
				g.Text("Nueva contraseña"),
				h.Input(h.ID("reset-password"), h.Name("password"), h.Type("password"), h.AutoComplete("new-password")),
				fieldError(d.Errors["password"]),
			),
			submitButton("Guardar contraseña", false),
		)
	}

	return c.HTML5(c.HTML5Props{
		Title:    "Restablecer contraseña | Casa Comfort",
		Language: "es",
		Head:     []g.Node{h.StyleEl(g.Raw(styles))},
		Body: []g.Node{
			h.Div(h.Class("pane"),
				h.Div(h.Class("card"),
					h.H1(g.Text("Restablecer contraseña")),
					content,
				),
			),
		},
	})
}
