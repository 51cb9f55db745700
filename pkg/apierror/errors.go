package apierror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Error is a failed call which received an HTTP error response.
type Error struct {
	Status  int
	Payload any
	Message string
}

var _ error = (*Error)(nil)

func New(status int, payload any) *Error {
	return &Error{
		Status:  status,
		Payload: payload,
		Message: Normalize(payload, status),
	}
}

func (e *Error) Error() string {
	return e.Message
}

// NetworkError is a failed call without any response.
type NetworkError struct {
	Err error
}

var _ error = (*NetworkError)(nil)

func (e *NetworkError) Error() string {
	return MSG_NETWORK
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Detail provides the message including the transport cause.
func (e *NetworkError) Detail() string {
	return fmt.Sprintf("%s (%s)", MSG_NETWORK, e.Err)
}

// FromResponse consumes the body of a non-successful response
// and provides the appropriate error.
func FromResponse(r *http.Response) *Error {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return New(r.StatusCode, nil)
	}
	return New(r.StatusCode, DecodePayload(data))
}

// Message provides the display text for any error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Message
	}
	var nerr *NetworkError
	if errors.As(err, &nerr) {
		return nerr.Error()
	}
	var ferr FieldErrors
	if errors.As(err, &ferr) {
		return ferr.Error()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return MSG_NETWORK
	}
	return err.Error()
}

// StatusOf provides the HTTP status of a failed call or 0 if
// no response has been received.
func StatusOf(err error) int {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Status
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
