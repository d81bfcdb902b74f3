package domain

// TokenPair is what a successful login returns. Both are signed JWTs; the
// refresh token is never accepted as request credentials.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
