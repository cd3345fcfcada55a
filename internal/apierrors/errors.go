package apierrors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error Handling Guidelines:
//
// For API client methods:
//   - Non-2xx responses decode into *APIError (backend wire shape)
//   - Transport failures are wrapped with fmt.Errorf("...: %w", err)
//   - Callers match failure modes with errors.Is against the sentinels below
//
// For the session layer:
//   - Forced logout (refresh failure, bootstrap failure) surfaces ErrSessionExpired
//   - Malformed access tokens are not errors at all: the decoder yields nil claims

// standardized error response returned by the backend
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "unauthorized", "not_found")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details
}

// standard error codes
const (
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeValidationError = "validation_error"
	CodeServerError     = "server_error"
	CodeBadRequest      = "bad_request"
	CodeConflict        = "conflict"
	CodeTooManyRequests = "too_many_requests"
)

// sentinel errors for session-level failure modes
var (
	// 401 from an auth endpoint, or from a request that already used its single retry
	ErrAuthenticationFailed = errors.New("authentication failed")

	// the refresh flow could not produce a usable credential pair; the token
	// store has been cleared by the time this surfaces
	ErrSessionExpired = errors.New("session expired")

	// profile endpoints returned a failure
	ErrProfileFetch = errors.New("profile fetch failed")
)

// represents a non-2xx backend response
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
}

func (e *APIError) Error() string {
	if e.Code != "" && e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}

	if e.Code != "" {
		return e.Code
	}

	return fmt.Sprintf("request failed with status %d", e.Status)
}

// builds an APIError from a failed response body; tolerates non-JSON bodies
func FromResponse(status int, body []byte) *APIError {
	var wire ErrorResponse
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != "" {
		return &APIError{
			Status:  status,
			Code:    wire.Error,
			Message: wire.Message,
			Details: wire.Details,
		}
	}

	return &APIError{Status: status}
}
