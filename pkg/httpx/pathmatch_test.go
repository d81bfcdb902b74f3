package httpx_test

import (
	"testing"

	"github.com/mgplatform/mgapi/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestPathMatcher(t *testing.T) {
	m, err := httpx.NewPathMatcher(
		"/email/**",
		"/**/callback",
		"/swagger-ui/*.html",
		"/livez",
	)
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"/email/confirm", true},
		{"/email/a/b/c", true},
		{"/email", true},
		{"/email/", true},
		{"/emails/confirm", false},
		{"/oauth/kakao/callback", true},
		{"/callback", true},
		{"/callback/extra", false},
		{"/swagger-ui/index.html", true},
		{"/swagger-ui/nested/index.html", false},
		{"/livez", true},
		{"/livez/extra", false},
		{"/api/users/me", false},
		{"/email/../api/users/me", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestPathMatcherErrors(t *testing.T) {
	t.Run("relative pattern", func(t *testing.T) {
		_, err := httpx.NewPathMatcher("email/**")
		require.Error(t, err)
	})

	t.Run("unbalanced brackets", func(t *testing.T) {
		_, err := httpx.NewPathMatcher("/files/[abc")
		require.Error(t, err)
	})

	t.Run("blank entries ignored", func(t *testing.T) {
		m, err := httpx.NewPathMatcher("", "  ", "/livez")
		require.NoError(t, err)
		require.Equal(t, []string{"/livez"}, m.Patterns())
	})

	t.Run("nil matcher matches nothing", func(t *testing.T) {
		var m *httpx.PathMatcher
		require.False(t, m.Match("/email/x"))
		require.Nil(t, m.Patterns())
	})

	t.Run("must panics on bad pattern", func(t *testing.T) {
		require.Panics(t, func() { httpx.MustPathMatcher("nope") })
	})
}
