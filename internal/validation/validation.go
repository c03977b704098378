// Package validation checks form payloads against their struct-tag schemas and
// reports human-readable, per-field messages in the storefront's locale.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
)

// Result is either acceptance or a mapping from form field name to message.
type Result struct {
	OK     bool
	Fields map[string]string
}

// Message returns the message for a field, or "".
func (r Result) Message(field string) string {
	return r.Fields[field]
}

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func setup() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Messages name fields by their visible label.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	locale := es.New()
	uni := ut.New(locale, locale)
	trans, _ = uni.GetTranslator("es")

	if err := es_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic("validation: registering translations: " + err.Error())
	}

	if err := validate.RegisterValidation("username_format", validateUsernameFormat); err != nil {
		panic("validation: registering username_format: " + err.Error())
	}
	err := validate.RegisterTranslation("username_format", trans,
		func(t ut.Translator) error {
			return t.Add("username_format", "{0} solo puede contener letras, números y guiones bajos", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T("username_format", fe.Field())
			return msg
		},
	)
	if err != nil {
		panic("validation: translating username_format: " + err.Error())
	}
}

// validateUsernameFormat allows letters, digits and underscores only.
func validateUsernameFormat(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if username == "" {
		return false
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_' {
			return false
		}
	}
	return true
}

// Validate checks v (a struct or pointer to struct) against its validate tags.
// Only the first failing rule per field is reported.
func Validate(v any) Result {
	once.Do(setup)

	err := validate.Struct(v)
	if err == nil {
		return Result{OK: true}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a struct: programming error, surface it on a pseudo-field.
		return Result{Fields: map[string]string{"_": err.Error()}}
	}

	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := formName(t, fe.StructField())
		if _, seen := fields[key]; seen {
			continue
		}
		fields[key] = fe.Translate(trans)
	}
	return Result{Fields: fields}
}

// formName maps a Go field to the name the HTML form posts it under.
func formName(t reflect.Type, structField string) string {
	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(structField)
	}
	return name
}

// Error adapts a failed Result to the error interface.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// Err returns nil for an accepted result and *Error otherwise.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	return &Error{Fields: r.Fields}
}
