package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error response from the marketplace API. Every non-2xx
// response and every transport failure surfaces as one of these, so callers
// above the client never inspect raw response bodies or status codes.
type APIError struct {
	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int
	// ErrorCode is the machine-readable code from the response body.
	ErrorCode string
	// Message is the human-readable message from the response body.
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsAuth reports whether the error is an authentication failure. The state
// layer tolerates these during initial auto-load.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether the server said the record does not exist.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// AsAPIError unwraps err into an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsAuthError reports whether err is a 401 from the API.
func IsAuthError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsAuth()
}

// IsNotFoundError reports whether err is a 404 from the API.
func IsNotFoundError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsNotFound()
}

// notFound builds the canonical not-found error for a resource/ID pair.
func notFound(resource, id string) *APIError {
	return &APIError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "not_found",
		Message:    fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// connectionError wraps a transport-level failure so callers still get an
// *APIError with a usable message.
func connectionError(baseURL string, err error) *APIError {
	return &APIError{
		StatusCode: 0,
		ErrorCode:  "connection_error",
		Message:    fmt.Sprintf("cannot reach marketplace API at %s: %v", baseURL, err),
	}
}
