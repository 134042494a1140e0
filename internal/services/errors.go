package services

import "net/http"

// APIError is a service failure with a caller-facing HTTP status. Anything
// else bubbling out of a service is an internal error: logged server-side,
// surfaced as a generic 500.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func ErrBadRequest(msg string) error {
	return &APIError{Status: http.StatusBadRequest, Message: msg}
}

func ErrNotFound(msg string) error {
	return &APIError{Status: http.StatusNotFound, Message: msg}
}

func ErrConflict(msg string) error {
	return &APIError{Status: http.StatusConflict, Message: msg}
}
