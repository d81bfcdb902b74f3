package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretSize is the smallest HS512 secret accepted, in bytes.
const MinSecretSize = 64

// CodecConfig holds everything needed to issue and verify tokens.
type CodecConfig struct {
	// Secret is the HS512 key. The same secret signs and verifies.
	Secret []byte

	// Issuer is written to "iss" and required when parsing. Empty disables
	// the check.
	Issuer string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Codec issues and parses HS512 tokens. It is immutable after construction
// and safe for concurrent use.
type Codec struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// CodecOption tweaks a Codec at construction.
type CodecOption func(*Codec)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec validates cfg and returns a ready Codec.
func NewCodec(cfg CodecConfig, opts ...CodecOption) (*Codec, error) {
	if len(cfg.Secret) < MinSecretSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrWeakSecret, len(cfg.Secret), MinSecretSize)
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("jwtx: token TTLs must be positive")
	}

	c := &Codec{
		secret:     append([]byte(nil), cfg.Secret...),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	popts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		// Reject non-canonical base64url. The last character of an HS512
		// signature carries 4 unused bits that lenient decoding ignores.
		jwt.WithStrictDecoding(),
	}
	if c.issuer != "" {
		popts = append(popts, jwt.WithIssuer(c.issuer))
	}
	c.parser = jwt.NewParser(popts...)

	return c, nil
}

// AccessTTL returns the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// IssueAccessToken signs a short-lived ACCESS token for s.
func (c *Codec) IssueAccessToken(s Subject) (string, error) {
	return c.issue(s, KindAccess, c.accessTTL)
}

// IssueRefreshToken signs a long-lived REFRESH token for s.
func (c *Codec) IssueRefreshToken(s Subject) (string, error) {
	return c.issue(s, KindRefresh, c.refreshTTL)
}

func (c *Codec) issue(s Subject, kind TokenKind, ttl time.Duration) (string, error) {
	sub := s.TokenSubject()
	if sub == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidClaim)
	}

	claims := NewClaims(sub, kind, c.issuer, ttl, c.now())
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}
