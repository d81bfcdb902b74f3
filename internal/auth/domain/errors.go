package domain

import (
	"net/http"

	"github.com/mgplatform/mgapi/pkg/httpx"
)

// ErrorCode is one entry of the API error catalog. Code is the short wire
// identifier clients switch on.
type ErrorCode struct {
	Name    string
	Status  int
	Code    string
	Message string
}

func (e ErrorCode) Error() string { return e.Name }

// Response renders e as the error body. dev is only included when non-empty.
func (e ErrorCode) Response(dev string) httpx.ErrorResponse {
	return httpx.ErrorResponse{
		Status:     e.Status,
		ErrorCode:  e.Code,
		Message:    e.Message,
		DevMessage: dev,
	}
}

var (
	InvalidParameter    = ErrorCode{"INVALID_PARAMETER", http.StatusBadRequest, "IPR", "Invalid parameter."}
	InternalServerError = ErrorCode{"INTERNAL_SERVER_ERROR", http.StatusInternalServerError, httpx.CodeInternalError, "Internal server error."}
	MethodNotSupported  = ErrorCode{"METHOD_NOT_SUPPORTED", http.StatusMethodNotAllowed, "MNSD", "HTTP method not supported."}
	NotFound            = ErrorCode{"NOT_FOUND", http.StatusNotFound, "NFD", "Resource not found."}
	AccessDenied        = ErrorCode{"ACCESS_DENIED", http.StatusForbidden, "ADD", "Access denied."}
	UserNonExists       = ErrorCode{"USER_NON_EXISTS", http.StatusUnauthorized, "UNFD", "User does not exist."}
	PasswordNotMatch    = ErrorCode{"PASSWORD_NOT_MATCH", http.StatusUnauthorized, "PNMH", "Password does not match."}
	Unauthorized        = ErrorCode{"UNAUTHORIZED", http.StatusUnauthorized, "UAD", "Unauthenticated access."}
	TokenNonExists      = ErrorCode{"TOKEN_NON_EXISTS", http.StatusUnauthorized, "TNES", "Token does not exist."}
	InvalidToken        = ErrorCode{"INVALID_TOKEN", http.StatusUnauthorized, "ITN", "Invalid token."}
	TokenExpired        = ErrorCode{"TOKEN_EXPIRED", http.StatusUnauthorized, "TED", "Token expired."}
	TooManyRequests     = ErrorCode{"TOO_MANY_REQUESTS", http.StatusTooManyRequests, httpx.CodeTooManyRequests, "Too many requests. Please try again later."}
)
