// Package authn runs the per-request authentication pipeline and the
// authorization stage that acts on its outcome.
//
// The pipeline never rejects a request. It classifies the bearer token,
// resolves the identity behind it and records an Outcome in the request
// context. Rejection is left to Authorizer, which maps the recorded Reason
// to a 401 or 403 response.
package authn

import (
	"context"
	"slices"

	"github.com/mgplatform/mgapi/internal/auth/domain"
)

// Reason explains why a request carries no identity.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonNoToken         Reason = "NO_TOKEN"
	ReasonExpired         Reason = "EXPIRED"
	ReasonInvalid         Reason = "INVALID"
	ReasonUnexpectedError Reason = "UNEXPECTED_ERROR"
)

// Principal is the identity attached to an authenticated request. It never
// carries the password hash.
type Principal struct {
	UserID      string
	LoginID     string
	DisplayName string
	Role        domain.Role
	Authorities []string
}

// NewPrincipal copies the request-visible fields of u.
func NewPrincipal(u domain.User) *Principal {
	return &Principal{
		UserID:      u.ID,
		LoginID:     u.LoginID,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Authorities: u.Authorities(),
	}
}

func (p *Principal) HasAuthority(authority string) bool {
	return slices.Contains(p.Authorities, authority)
}

// Outcome is the result of one pipeline run. Exactly one of Identity and
// Reason is set.
type Outcome struct {
	Identity *Principal
	Reason   Reason
}

func (o Outcome) Authenticated() bool { return o.Identity != nil }

// label is the metrics label for o.
func (o Outcome) label() string {
	if o.Authenticated() {
		return "authenticated"
	}
	switch o.Reason {
	case ReasonNoToken:
		return "no_token"
	case ReasonExpired:
		return "expired"
	case ReasonInvalid:
		return "invalid"
	default:
		return "unexpected_error"
	}
}

type ctxKey struct{}

// WithOutcome stores o in ctx.
func WithOutcome(ctx context.Context, o Outcome) context.Context {
	return context.WithValue(ctx, ctxKey{}, o)
}

// OutcomeFromContext returns the outcome recorded by the pipeline. ok is
// false for bypassed paths and requests that never went through it.
func OutcomeFromContext(ctx context.Context) (Outcome, bool) {
	o, ok := ctx.Value(ctxKey{}).(Outcome)
	return o, ok
}

// PrincipalFromContext returns the authenticated identity, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	o, ok := OutcomeFromContext(ctx)
	if !ok || !o.Authenticated() {
		return nil, false
	}
	return o.Identity, true
}
