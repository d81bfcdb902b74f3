package jwtx

import "errors"

// Status is the outcome of validating a token.
type Status int

const (
	StatusInvalid Status = iota
	StatusValid
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "VALID"
	case StatusExpired:
		return "EXPIRED"
	default:
		return "INVALID"
	}
}

// Validator classifies tokens without surfacing errors to the caller.
type Validator struct {
	codec *Codec
}

// NewValidator wraps c.
func NewValidator(c *Codec) *Validator {
	return &Validator{codec: c}
}

// Classify parses token once and returns its status together with the
// claims, which are non-nil only for StatusValid. Callers needing several
// answers about one token use this so they all see the same clock reading.
func (v *Validator) Classify(token string) (Status, *Claims) {
	claims, err := v.codec.Parse(token)
	switch {
	case err == nil:
		return StatusValid, claims
	case errors.Is(err, ErrExpired):
		return StatusExpired, nil
	default:
		return StatusInvalid, nil
	}
}

// Validate returns StatusExpired only for a correctly signed token past its
// exp; every other failure is StatusInvalid.
func (v *Validator) Validate(token string) Status {
	status, _ := v.Classify(token)
	return status
}

// IsAccessToken reports whether token parses and is of kind ACCESS.
func (v *Validator) IsAccessToken(token string) bool {
	status, claims := v.Classify(token)
	return status == StatusValid && claims.IsAccess()
}

// ExtractSubject returns the "sub" claim of a valid token.
func (v *Validator) ExtractSubject(token string) (string, error) {
	claims, err := v.codec.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
