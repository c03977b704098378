package ui

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

func textField(id, name, label, inputType, value, errMsg string) g.Node {
	return h.Label(h.For(id),
		g.Text(label),
		h.Input(h.ID(id), h.Name(name), h.Type(inputType), h.Value(value)),
		fieldError(errMsg),
	)
}

func emailField(id, value, errMsg string) g.Node {
	return h.Label(h.For(id),
		g.Text("Email"),
		h.Input(h.ID(id), h.Name("email"), h.Type("email"), h.Placeholder("tu@email.com"), h.Value(value)),
		fieldError(errMsg),
	)
}

// Passwords are never echoed back into the page.
func passwordField(id, label, errMsg string) g.Node {
	return h.Label(h.For(id),
		g.Text(label),
		h.Input(h.ID(id), h.Name("password"), h.Type("password"), h.AutoComplete("current-password")),
		fieldError(errMsg),
	)
}

func fieldError(msg string) g.Node {
	if msg == "" {
		return nil
	}
	return h.Span(h.Class("field-error"), g.Text(msg))
}

func submitButton(label string, disabled bool) g.Node {
	return h.Button(h.Type("submit"), g.If(disabled, h.Disabled()), g.Text(label))
}

func status(errMsg, notice string) g.Node {
	switch {
	case errMsg != "":
		return h.Div(h.Class("alert"), h.Role("alert"), g.Text(errMsg))
	case notice != "":
		return h.Div(h.Class("notice"), h.Role("status"), g.Text(notice))
	}
	return nil
}
