package authn

import (
	"net/http"

	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/pkg/httpx"
	"github.com/mgplatform/mgapi/pkg/slogx"
)

// Authorizer is the stage after the pipeline. It fails closed: a request
// with no recorded outcome is treated as unauthenticated.
type Authorizer struct {
	// DevMessages adds the internal reason to error bodies.
	DevMessages bool
}

// RequireAuthenticated rejects requests without an identity with 401.
func (a Authorizer) RequireAuthenticated() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			o, _ := OutcomeFromContext(r.Context())
			if !o.Authenticated() {
				a.unauthorized(w, r, o.Reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnyRole admits authenticated requests holding the authority of at
// least one of roles. Others get 401 or 403.
func (a Authorizer) RequireAnyRole(roles ...domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			o, _ := OutcomeFromContext(r.Context())
			if !o.Authenticated() {
				a.unauthorized(w, r, o.Reason)
				return
			}
			for _, role := range roles {
				if o.Identity.HasAuthority(role.Authority()) {
					next.ServeHTTP(w, r)
					return
				}
			}

			slogx.FromContext(r.Context()).Info("access denied",
				"user_id", o.Identity.UserID,
				"role", o.Identity.Role,
			)
			a.write(w, domain.AccessDenied, "missing required role")
		})
	}
}

// ErrorFor maps a pipeline reason to the error reported to the client.
func ErrorFor(reason Reason) domain.ErrorCode {
	switch reason {
	case ReasonNoToken:
		return domain.TokenNonExists
	case ReasonExpired:
		return domain.TokenExpired
	case ReasonInvalid:
		return domain.InvalidToken
	default:
		return domain.Unauthorized
	}
}

func (a Authorizer) unauthorized(w http.ResponseWriter, r *http.Request, reason Reason) {
	code := ErrorFor(reason)
	slogx.FromContext(r.Context()).Debug("unauthenticated request",
		"reason", string(reason),
		"error_code", code.Code,
	)
	if reason == ReasonNoToken {
		w.Header().Set("WWW-Authenticate", "Bearer")
	} else {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	}
	dev := string(reason)
	if dev == "" {
		dev = "no authentication outcome"
	}
	a.write(w, code, dev)
}

func (a Authorizer) write(w http.ResponseWriter, code domain.ErrorCode, dev string) {
	if !a.DevMessages {
		dev = ""
	}
	httpx.WriteErrorResponse(w, code.Response(dev))
}
