// Package apperror defines the error kinds surfaced to API clients. Every
// failure the service reports on purpose is an *Error; anything else reaching
// the HTTP boundary is treated as an internal error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an Error and determines its HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthRequired
	KindBadRequest
	KindForbidden
	KindNotFound
	KindUnprocessable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthRequired:
		return "authentication_required"
	case KindBadRequest:
		return "bad_request"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindUnprocessable:
		return "unprocessable"
	default:
		return "internal"
	}
}

// Status maps the kind to an HTTP status code. Missing credentials are
// reported as 400 rather than 401 to stay compatible with existing clients.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindAuthRequired, KindBadRequest:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// FieldError names one offending field and what is wrong with it.
type FieldError struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Reason
	}
	return f.Field + ": " + f.Reason
}

// Error is a classified, client-visible failure.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a validation error whose message lists every field
// violation, so the field names always appear in the message text.
func Validation(fields ...FieldError) *Error {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	msg := "invalid input"
	if len(parts) > 0 {
		msg = strings.Join(parts, "; ")
	}
	return &Error{Kind: KindValidation, Message: msg, Fields: fields}
}

func AuthRequired(msg string) *Error  { return &Error{Kind: KindAuthRequired, Message: msg} }
func BadRequest(msg string) *Error    { return &Error{Kind: KindBadRequest, Message: msg} }
func Forbidden(msg string) *Error     { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error      { return &Error{Kind: KindNotFound, Message: msg} }
func Unprocessable(msg string) *Error { return &Error{Kind: KindUnprocessable, Message: msg} }

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
