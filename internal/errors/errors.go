package apierrors

import "fmt"

// HTTP 400 Bad Request.
const (
	ErrBadRequest = "BAD_REQUEST"
)

// HTTP 429 Too Many Requests.
const (
	ErrTooManyRequests = "TOO_MANY_REQUESTS"
)

// HTTP 500 Internal Server Error.
const (
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    int
	Message string
}

func NewAPIError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}
