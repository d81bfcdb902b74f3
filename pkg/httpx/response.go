package httpx

import (
	"encoding/json"
	"net/http"
	"time"
)

// TimestampLayout is the format of ErrorResponse.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Wire codes httpx writes on its own. The full catalog lives with the
// domain; these two are needed by the rate limiter and panic recovery.
const (
	CodeInternalError   = "ISR"
	CodeTooManyRequests = "TMR"
)

// ErrorResponse is the JSON body of every error the API returns.
type ErrorResponse struct {
	Status    int    `json:"status"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`

	// DevMessage carries the underlying error text when the service runs
	// with developer messages enabled. Never set in production.
	DevMessage string `json:"errorMessageDev,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse stamped with the current local time.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteErrorResponse(w, ErrorResponse{Status: status, ErrorCode: code, Message: message})
}

// WriteErrorResponse writes resp, filling Timestamp when it is empty.
func WriteErrorResponse(w http.ResponseWriter, resp ErrorResponse) {
	if resp.Timestamp == "" {
		resp.Timestamp = time.Now().Format(TimestampLayout)
	}
	WriteJSON(w, resp.Status, resp)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
