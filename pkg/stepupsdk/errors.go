package stepupsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// API error codes returned in the "error" field.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeInvalidToken   = "invalid_token"
	ErrorCodeInvalidCode    = "invalid_code"
	ErrorCodeCodeExpired    = "code_expired"
	ErrorCodeLocked         = "locked"
	ErrorCodeRateLimited    = "rate_limited"
	ErrorCodeNotEnabled     = "not_enabled"
	ErrorCodeMethodDisabled = "method_disabled"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeServerError    = "server_error"
)

// APIError is the service's JSON error envelope. It implements error so the
// SDK client can surface it directly.
type APIError struct {
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error to an HTTP response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// WithDescription returns a copy with a more specific description.
func (e *APIError) WithDescription(desc string) *APIError {
	out := *e
	out.Description = desc
	return &out
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "invalid or missing access token",
	}

	ErrInvalidCode = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidCode,
		Description: "the verification code is incorrect",
	}

	ErrCodeExpired = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeCodeExpired,
		Description: "the verification code expired, request a new one",
	}

	ErrLocked = &APIError{
		StatusCode:  http.StatusLocked,
		Code:        ErrorCodeLocked,
		Description: "verification is temporarily locked after repeated failures",
	}

	ErrRateLimited = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimited,
		Description: "too many attempts, try again later",
	}

	ErrNotEnabled = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeNotEnabled,
		Description: "two-factor verification is not enabled for this account",
	}

	ErrMethodDisabled = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeMethodDisabled,
		Description: "this verification method is disabled by policy",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error, please try again",
	}
)
