package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs used when the service configuration leaves them unset.
const (
	DefaultAccessTokenTTL  = 30 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// TokenKind distinguishes access tokens from refresh tokens. It travels in
// the "tokenType" claim.
type TokenKind string

const (
	KindAccess  TokenKind = "ACCESS"
	KindRefresh TokenKind = "REFRESH"
)

// Valid reports whether k is one of the known kinds.
func (k TokenKind) Valid() bool {
	return k == KindAccess || k == KindRefresh
}

// Subject is anything a token can be issued for.
type Subject interface {
	TokenSubject() string
}

// Claims carried by every token the service issues.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is ACCESS or REFRESH. Only access tokens authenticate requests.
	Kind TokenKind `json:"tokenType"`
}

// NewClaims builds claims for subject with iat=now and exp=now+ttl.
func NewClaims(subject string, kind TokenKind, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}
}

// Validate is called by the jwt parser after the registered claims have been
// checked.
func (c *Claims) Validate() error {
	if c.Subject == "" {
		return fmt.Errorf("%w: missing sub", ErrInvalidClaim)
	}
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: unknown tokenType %q", ErrInvalidClaim, c.Kind)
	}
	return nil
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// IsAccess reports whether the claims belong to an access token.
func (c *Claims) IsAccess() bool {
	return c.Kind == KindAccess
}
