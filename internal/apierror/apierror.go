// Package apierror provides standardized error values for the POS core and the
// response envelopes used by the HTTP layer. Services return the kinds defined
// here; handlers translate them into status codes without leaking internals.
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Error kinds. Match with errors.Is.
var (
	ErrValidation  = errors.New("validation")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrConcurrency = errors.New("concurrency")
)

// DomainError carries a user-facing message and the kind it belongs to.
type DomainError struct {
	Kind error
	Msg  string
}

func (e *DomainError) Error() string { return e.Msg }

func (e *DomainError) Unwrap() error { return e.Kind }

func Validation(msg string) error  { return &DomainError{Kind: ErrValidation, Msg: msg} }
func NotFound(msg string) error    { return &DomainError{Kind: ErrNotFound, Msg: msg} }
func Conflict(msg string) error    { return &DomainError{Kind: ErrConflict, Msg: msg} }
func Concurrency(msg string) error { return &DomainError{Kind: ErrConcurrency, Msg: msg} }

// StatusFor maps an error returned by a service to an HTTP status code.
// Unknown errors are internal.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrConcurrency):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain reports whether err carries a message that is safe to show to the client.
func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
