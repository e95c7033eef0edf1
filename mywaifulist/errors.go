package mywaifulist

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid mywaifulist configuration")
	// ErrPoolStopped is returned when work is submitted to a stopped pool
	ErrPoolStopped = errors.New("worker pool is stopped")
	// ErrClientClosed indicates the client was closed before the request was sent
	ErrClientClosed = errors.New("mywaifulist client is closed")

	// ErrTransport matches any *Error of kind ErrorKindTransport
	ErrTransport = errors.New("mywaifulist transport error")
	// ErrMapping matches any *Error of kind ErrorKindMapping
	ErrMapping = errors.New("mywaifulist mapping error")
	// ErrAPI matches any *Error of kind ErrorKindAPI
	ErrAPI = errors.New("mywaifulist API error")
)

// ErrorKind classifies a failed call. The set is closed.
type ErrorKind int

const (
	// ErrorKindTransport covers connection, timeout and cancellation failures
	ErrorKindTransport ErrorKind = iota + 1
	// ErrorKindMapping means the server answered 2xx but the payload did not fit the requested shape
	ErrorKindMapping
	// ErrorKindAPI means the server answered with a non-2xx status
	ErrorKindAPI
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransport:
		return "transport"
	case ErrorKindMapping:
		return "mapping"
	case ErrorKindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Error is the failure half of every Result.
type Error struct {
	Kind ErrorKind
	// StatusCode is the HTTP status (0 for transport errors)
	StatusCode int
	Message    string
	// Path is the request path relative to the base URL, when known
	Path string
	// Shape and Field locate a mapping failure, e.g. "single(waifu)" and "name"
	Shape string
	Field string
	// Body is the raw response body for API and mapping errors
	Body string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case ErrorKindAPI:
		return fmt.Sprintf("mywaifulist API error: status %d: %s", e.StatusCode, e.Message)
	case ErrorKindMapping:
		if e.Field != "" {
			return fmt.Sprintf("mywaifulist mapping error: %s: field %q: %s", e.Shape, e.Field, e.Message)
		}
		return fmt.Sprintf("mywaifulist mapping error: %s: %s", e.Shape, e.Message)
	default:
		if e.Path != "" {
			return fmt.Sprintf("mywaifulist transport error: %s: %s", e.Path, e.Message)
		}
		return fmt.Sprintf("mywaifulist transport error: %s", e.Message)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels so callers can use errors.Is(err, ErrAPI)
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Kind == ErrorKindTransport
	case ErrMapping:
		return e.Kind == ErrorKindMapping
	case ErrAPI:
		return e.Kind == ErrorKindAPI
	}
	return false
}

// IsNotFound checks if the error indicates a not found response
func (e *Error) IsNotFound() bool {
	return e.Kind == ErrorKindAPI && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *Error) IsUnauthorized() bool {
	return e.Kind == ErrorKindAPI &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

func newTransportError(path string, err error) *Error {
	return &Error{
		Kind:    ErrorKindTransport,
		Message: err.Error(),
		Path:    path,
		Err:     err,
	}
}

func newMappingError(shape, field, body string, err error) *Error {
	return &Error{
		Kind:    ErrorKindMapping,
		Message: err.Error(),
		Shape:   shape,
		Field:   field,
		Body:    body,
		Err:     err,
	}
}

func newAPIError(statusCode int, message, body string) *Error {
	return &Error{
		Kind:       ErrorKindAPI,
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}
