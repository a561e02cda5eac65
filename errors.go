package bind

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure kinds. ErrConfig marks programming mistakes surfaced at wrap or
// registration time; ErrExtract and ErrStructure are per-request data
// problems.
var (
	ErrConfig    = errors.New("invalid binding configuration")
	ErrExtract   = errors.New("failed to extract inner from request")
	ErrStructure = errors.New("cannot structure value")
)

// StatusCoder is implemented by errors or responses that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Extraction and
// structuring failures are client errors; anything unclassified is a 500.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	if errors.Is(err, ErrExtract) || errors.Is(err, ErrStructure) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
