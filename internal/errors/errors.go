package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrPostNotFound is returned when a blog post id does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrCommentNotFound is returned when a comment id does not exist.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrNotAllowed is returned when the caller may not perform the action.
	ErrNotAllowed = errors.New("not allowed")
)

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrPostNotFound), errors.Is(err, ErrCommentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotAllowed):
		return NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
