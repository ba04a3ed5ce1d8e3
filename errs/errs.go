// Package errs holds the sentinel errors shared by the repository, service and
// controller layers. Callers attach context with github.com/pkg/errors and
// match with errors.Is.
package errs

import (
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound: the referenced question/answer does not exist, or the answer
	// belongs to a different question.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: the actor may not perform the mutation.
	ErrForbidden = errors.New("operation not allowed")
	// ErrValidation: input rejected before reaching storage.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized: an anonymous actor reached an operation that needs one.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict: a unique value such as a username is already taken.
	ErrConflict = errors.New("already exists")
)

// Validation returns an ErrValidation carrying msg.
func Validation(msg string) error {
	return errors.WithMessage(ErrValidation, msg)
}

// NotFound returns an ErrNotFound naming what was missing.
func NotFound(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}

// Status maps an error onto the HTTP status the API answers with.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for err. Internal errors are not echoed.
func Message(err error) string {
	if Status(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
