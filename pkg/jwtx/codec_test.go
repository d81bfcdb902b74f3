package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mgplatform/mgapi/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

type subject string

func (s subject) TokenSubject() string { return string(s) }

var testSecret = []byte(strings.Repeat("0123456789abcdef", 4))

// testClock is a settable clock shared by a codec and the test body.
type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func newTestCodec(t *testing.T, clock *testClock, issuer string) *jwtx.Codec {
	t.Helper()
	codec, err := jwtx.NewCodec(jwtx.CodecConfig{
		Secret:     testSecret,
		Issuer:     issuer,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}, jwtx.WithClock(clock.Now))
	require.NoError(t, err)
	return codec
}

// tamper flips one character in the middle of the signature segment.
func tamper(token string) string {
	dot := strings.LastIndex(token, ".")
	sig := []byte(token[dot+1:])
	i := len(sig) / 2
	if sig[i] == 'A' {
		sig[i] = 'B'
	} else {
		sig[i] = 'A'
	}
	return token[:dot+1] + string(sig)
}

func TestNewCodec(t *testing.T) {
	t.Run("rejects short secret", func(t *testing.T) {
		_, err := jwtx.NewCodec(jwtx.CodecConfig{
			Secret:     []byte("too-short"),
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
		})
		require.ErrorIs(t, err, jwtx.ErrWeakSecret)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		_, err := jwtx.NewCodec(jwtx.CodecConfig{
			Secret:     testSecret,
			AccessTTL:  0,
			RefreshTTL: time.Hour,
		})
		require.Error(t, err)
	})

	t.Run("accepts 64 byte secret", func(t *testing.T) {
		codec, err := jwtx.NewCodec(jwtx.CodecConfig{
			Secret:     testSecret,
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
		})
		require.NoError(t, err)
		require.Equal(t, time.Minute, codec.AccessTTL())
	})
}

func TestIssueAndParse(t *testing.T) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	codec := newTestCodec(t, clock, "mg-api")

	t.Run("access token", func(t *testing.T) {
		token, err := codec.IssueAccessToken(subject("user-42"))
		require.NoError(t, err)
		require.Len(t, strings.Split(token, "."), 3)

		claims, err := codec.Parse(token)
		require.NoError(t, err)
		require.Equal(t, "user-42", claims.Subject)
		require.Equal(t, jwtx.KindAccess, claims.Kind)
		require.Equal(t, "mg-api", claims.Issuer)
		require.Equal(t, clock.now.Unix(), claims.IssuedAt.Unix())
		require.Equal(t, clock.now.Add(30*time.Minute).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("refresh token", func(t *testing.T) {
		token, err := codec.IssueRefreshToken(subject("user-42"))
		require.NoError(t, err)

		claims, err := codec.Parse(token)
		require.NoError(t, err)
		require.Equal(t, jwtx.KindRefresh, claims.Kind)
		require.Equal(t, clock.now.Add(30*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("empty subject is refused", func(t *testing.T) {
		_, err := codec.IssueAccessToken(subject(""))
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})

	t.Run("header uses HS512", func(t *testing.T) {
		token, err := codec.IssueAccessToken(subject("user-42"))
		require.NoError(t, err)

		parsed, _, err := jwt.NewParser().ParseUnverified(token, &jwtx.Claims{})
		require.NoError(t, err)
		require.Equal(t, "HS512", parsed.Method.Alg())
	})

	t.Run("parse is idempotent", func(t *testing.T) {
		token, err := codec.IssueAccessToken(subject("user-42"))
		require.NoError(t, err)

		first, err := codec.Parse(token)
		require.NoError(t, err)
		second, err := codec.Parse(token)
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

func TestParseErrors(t *testing.T) {
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	codec := newTestCodec(t, clock, "mg-api")

	valid, err := codec.IssueAccessToken(subject("user-42"))
	require.NoError(t, err)

	t.Run("malformed", func(t *testing.T) {
		for _, tok := range []string{"", "abc", "a.b", "not.a.jwt"} {
			_, err := codec.Parse(tok)
			require.ErrorIs(t, err, jwtx.ErrMalformed, "token %q", tok)
		}
	})

	t.Run("tampered signature", func(t *testing.T) {
		_, err := codec.Parse(tamper(valid))
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("different secret", func(t *testing.T) {
		other, err := jwtx.NewCodec(jwtx.CodecConfig{
			Secret:     []byte(strings.Repeat("z", 64)),
			Issuer:     "mg-api",
			AccessTTL:  time.Minute,
			RefreshTTL: time.Hour,
		}, jwtx.WithClock(clock.Now))
		require.NoError(t, err)

		token, err := other.IssueAccessToken(subject("user-42"))
		require.NoError(t, err)

		_, err = codec.Parse(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := jwtx.NewClaims("user-42", jwtx.KindAccess, "mg-api", time.Minute, clock.now)
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Parse(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("HS256 with same secret", func(t *testing.T) {
		claims := jwtx.NewClaims("user-42", jwtx.KindAccess, "mg-api", time.Minute, clock.now)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)

		_, err = codec.Parse(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		foreign := newTestCodec(t, clock, "someone-else")
		token, err := foreign.IssueAccessToken(subject("user-42"))
		require.NoError(t, err)

		_, err = codec.Parse(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("missing token type", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
			"sub": "user-42",
			"iss": "mg-api",
			"iat": clock.now.Unix(),
			"exp": clock.now.Add(time.Minute).Unix(),
		}).SignedString(testSecret)
		require.NoError(t, err)

		_, err = codec.Parse(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})

	t.Run("missing exp", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
			"sub":       "user-42",
			"iss":       "mg-api",
			"tokenType": "ACCESS",
		}).SignedString(testSecret)
		require.NoError(t, err)

		_, err = codec.Parse(token)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}
