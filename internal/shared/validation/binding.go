package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"enterprise_backend/internal/shared/apperror"
)

// FieldErrors groups user-visible messages by form field.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// FromError converts a binding or application error into field messages.
// Errors that carry no field are reported under "form".
func FromError(err error) FieldErrors {
	out := FieldErrors{}
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			out.Add(formName(fe.Field()), bindingMessage(fe))
		}
		return out
	}
	if ae, ok := apperror.As(err); ok {
		field := ae.Field
		if field == "" {
			field = "form"
		}
		out.Add(field, ae.Message)
		return out
	}
	out.Add("form", "Invalid form submission.")
	return out
}

// FromBindingError classifies a gin binding failure. The first failing rule
// decides the kind: "max" violations are LengthErrors, the rest FormatErrors.
func FromBindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		kind := apperror.KindFormatError
		if fe.Tag() == "max" {
			kind = apperror.KindLengthError
		}
		return apperror.Wrap(kind, formName(fe.Field()), bindingMessage(fe), err)
	}
	return apperror.Wrap(apperror.KindFormatError, "", "Invalid form submission.", err)
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "email":
		return "Invalid email address."
	case "eqfield":
		return fmt.Sprintf("Field must be equal to %s.", formName(fe.Param()))
	default:
		return "Invalid value."
	}
}

func lengthMessage(max int) string {
	return fmt.Sprintf("Field cannot be longer than %d characters.", max)
}

// formName converts a Go field name (AboutMe) to its form name (about_me).
func formName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
