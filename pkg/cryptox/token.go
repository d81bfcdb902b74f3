package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Secret sizes in bytes before encoding.
const (
	SecretSize256 = 32
	SecretSize512 = 64
)

// GenerateSecret returns size random bytes encoded as base64url without
// padding. The encoded form is always longer than size, so a secret
// generated with SecretSize512 satisfies HS512's key length.
func GenerateSecret(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("secret size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Fingerprint returns a short, deterministic SHA-256 fingerprint of a token.
// It lets logs correlate requests carrying the same bearer token without
// writing the token itself.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:9])
}
