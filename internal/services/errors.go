package services

import "errors"

// ServiceError carries the HTTP status the route layer should answer with.
type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: 401, Message: msg}
}

// IsNotFound reports whether err is a 404 ServiceError.
func IsNotFound(err error) bool {
	var serr ServiceError
	return errors.As(err, &serr) && serr.Status == 404
}

// GenerationError wraps a failed call to the text-generation provider.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return "generation failed: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
