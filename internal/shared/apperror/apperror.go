// Package apperror defines the error taxonomy shared by validation, use cases and handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind string

const (
	KindDuplicateValue   Kind = "duplicate_value"
	KindFormatError      Kind = "format_error"
	KindExternalConflict Kind = "external_conflict"
	KindLengthError      Kind = "length_error"
	KindNotFound         Kind = "not_found"
	KindAuthError        Kind = "auth_error"
	KindStorageError     Kind = "storage_error"
)

// Error is a classified error, optionally bound to a form field.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error

	sentinel bool
}

// Sentinels usable with errors.Is to test for a kind regardless of field or message.
var (
	ErrDuplicateValue   = sentinel(KindDuplicateValue)
	ErrFormatError      = sentinel(KindFormatError)
	ErrExternalConflict = sentinel(KindExternalConflict)
	ErrLengthError      = sentinel(KindLengthError)
	ErrNotFound         = sentinel(KindNotFound)
	ErrAuthError        = sentinel(KindAuthError)
	ErrStorageError     = sentinel(KindStorageError)
)

func sentinel(k Kind) *Error {
	return &Error{Kind: k, Message: string(k), sentinel: true}
}

// New creates a field-bound error of the given kind.
func New(kind Kind, field, message string) *Error {
	return &Error{Kind: kind, Field: field, Message: message}
}

// Wrap is like New but keeps the underlying cause.
func Wrap(kind Kind, field, message string, err error) *Error {
	return &Error{Kind: kind, Field: field, Message: message, Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || !t.sentinel {
		return false
	}
	return t.Kind == e.Kind
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" if err is not classified.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return ""
}

// HTTPStatus maps an error to the status code used when re-rendering a page.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindDuplicateValue, KindExternalConflict:
		return http.StatusConflict
	case KindFormatError, KindLengthError:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthError:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
