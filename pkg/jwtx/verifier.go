package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrWeakSecret = errors.New("jwtx: secret too short for HS512")

	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Parse decodes token, verifies its signature and then its claims.
//
// The signature is checked before any claim, so an expired token with a bad
// signature reports ErrInvalidSig rather than ErrExpired. Returned errors
// match one of ErrMalformed, ErrInvalidSig, ErrExpired or ErrInvalidClaim
// with errors.Is.
func (c *Codec) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidClaim
	}
	return claims, nil
}

// classify folds the jwt library's error set into ours.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return fmt.Errorf("%w: %w: %w", ErrInvalidClaim, ErrIssuer, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}
}
