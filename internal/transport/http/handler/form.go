package handler

import (
	"errors"
	"net/url"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"musicwebsite/internal/app"
)

// safeNext validates a post-login redirect target. Anything that could leave
// this site (absolute URLs, scheme-relative //host forms) falls back to "/".
func safeNext(raw string) string {
	if raw == "" {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	if !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	return raw
}

// bindingFieldErrors turns gin binding failures into per-field messages so
// forms redisplay like server-side validation always has.
func bindingFieldErrors(err error) app.FieldErrors {
	fields := app.FieldErrors{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields["form"] = "Please check the form and try again."
		return fields
	}

	for _, fe := range verrs {
		fields[formFieldName(fe.Field())] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid email address."
	case "min":
		return "Must be at least " + fe.Param() + " characters."
	case "max":
		return "Must be at most " + fe.Param() + " characters."
	case "eqfield":
		return "Passwords must match."
	default:
		return "Invalid value."
	}
}

// formFieldName maps a struct field name to its form key, e.g.
// "ConfirmPassword" to "confirm_password".
func formFieldName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
