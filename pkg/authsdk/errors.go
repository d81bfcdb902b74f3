package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes returned in the errorCode field.
const (
	CodeInvalidParameter   = "IPR"
	CodeInternalError      = "ISR"
	CodeMethodNotSupported = "MNSD"
	CodeNotFound           = "NFD"
	CodeAccessDenied       = "ADD"
	CodeUserNonExists      = "UNFD"
	CodePasswordNotMatch   = "PNMH"
	CodeUnauthorized       = "UAD"
	CodeTokenNonExists     = "TNES"
	CodeInvalidToken       = "ITN"
	CodeTokenExpired       = "TED"
	CodeTooManyRequests    = "TMR"
)

// APIError is the decoded error body of a failed call.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"errorCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	DevMessage string `json:"errorMessageDev,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is matches on status and code so callers can compare against the
// predefined errors below.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

var (
	ErrInvalidParameter = &APIError{StatusCode: http.StatusBadRequest, Code: CodeInvalidParameter}
	ErrAccessDenied     = &APIError{StatusCode: http.StatusForbidden, Code: CodeAccessDenied}
	ErrNotFound         = &APIError{StatusCode: http.StatusNotFound, Code: CodeNotFound}
	ErrUserNonExists    = &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUserNonExists}
	ErrPasswordNotMatch = &APIError{StatusCode: http.StatusUnauthorized, Code: CodePasswordNotMatch}
	ErrUnauthorized     = &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized}
	ErrTokenNonExists   = &APIError{StatusCode: http.StatusUnauthorized, Code: CodeTokenNonExists}
	ErrInvalidToken     = &APIError{StatusCode: http.StatusUnauthorized, Code: CodeInvalidToken}
	ErrTokenExpired     = &APIError{StatusCode: http.StatusUnauthorized, Code: CodeTokenExpired}
	ErrTooManyRequests  = &APIError{StatusCode: http.StatusTooManyRequests, Code: CodeTooManyRequests}
)

// parseErrorResponse turns a non-2xx response into an *APIError. Bodies that
// are not in the service's error shape still yield an APIError built from
// the status line.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
