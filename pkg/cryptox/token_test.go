package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"256-bit secret", SecretSize256, 43},
		{"512-bit secret", SecretSize512, 86},
		{"custom size", 24, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secret, err := GenerateSecret(tt.size)
			require.NoError(t, err)
			require.Len(t, secret, tt.wantLen)

			other, err := GenerateSecret(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, secret, other, "secrets should be unique")
		})
	}
}

func TestGenerateSecret_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		secret, err := GenerateSecret(size)
		require.Error(t, err)
		require.Empty(t, secret)
	}
}

func TestFingerprint(t *testing.T) {
	fp1a := Fingerprint("token-1")
	fp1b := Fingerprint("token-1")
	fp2 := Fingerprint("token-2")

	require.Equal(t, fp1a, fp1b, "fingerprint should be deterministic")
	require.NotEqual(t, fp1a, fp2)
	require.Len(t, fp1a, 12)
	require.NotContains(t, fp1a, "token")
}
