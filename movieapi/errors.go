package movieapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid movie API configuration")
	// ErrEmptyToken indicates the token endpoint answered without a token
	ErrEmptyToken = errors.New("token endpoint returned an empty token")
	// ErrMissingID indicates a lookup was attempted without an identifier
	ErrMissingID = errors.New("movie id is required")
)

// APIError represents a non-success response from an authenticated endpoint
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("movie API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure.
// The client never refreshes its token, so a cached token that expired keeps
// producing these until the process restarts.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// AuthError indicates the bearer token could not be obtained
type AuthError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch auth token: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("failed to fetch auth token: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// newAPIError builds an APIError from a response status and body
func newAPIError(resp *http.Response, body []byte) *APIError {
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Body:       string(body),
	}
}
