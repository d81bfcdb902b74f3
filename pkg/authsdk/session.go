package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Session is an authenticated client. It is safe for concurrent use.
type Session struct {
	client *SDKClient

	accessToken  string
	refreshToken string
}

func (s *Session) AccessToken() string  { return s.accessToken }
func (s *Session) RefreshToken() string { return s.refreshToken }

// Me returns the account behind the session's access token.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/users/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser fetches any account by id. Requires the ADMIN role.
func (s *Session) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/api/admin/users/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}
