package rest

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMethod is returned by Builder.Do when the verb is not one of
// DELETE, GET, PATCH, POST or PUT.
var ErrUnsupportedMethod = errors.New("unsupported method")

// InvalidURLError is returned when the assembled URL is not a well-formed URI.
type InvalidURLError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *InvalidURLError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid url %q", e.URL)
	}
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// TransportError wraps a failure reported by the Transport (connection
// refused, timeout, TLS failure). The underlying error is kept intact.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SerializationError is returned when the request body cannot be serialized.
// It is always raised before any network call.
type SerializationError struct {
	Err error
}

// Error implements the error interface
func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize request body: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// IsInvalidURL checks if an error is an InvalidURLError
func IsInvalidURL(err error) bool {
	var target *InvalidURLError
	return errors.As(err, &target)
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsSerialization checks if an error is a SerializationError
func IsSerialization(err error) bool {
	var target *SerializationError
	return errors.As(err, &target)
}
