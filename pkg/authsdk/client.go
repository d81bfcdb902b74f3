package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the mgapi authentication service.
// It provides access to unauthenticated operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges credentials for a token pair.
func (c *SDKClient) Login(ctx context.Context, loginID, password string) (*Session, error) {
	tokens, err := c.RequestTokens(ctx, loginID, password)
	if err != nil {
		return nil, err
	}
	return c.NewSessionFromTokens(tokens.AccessToken, tokens.RefreshToken), nil
}

// RequestTokens calls the login endpoint and returns the raw token pair.
func (c *SDKClient) RequestTokens(ctx context.Context, loginID, password string) (*TokenResponse, error) {
	body, err := json.Marshal(LoginRequest{LoginID: loginID, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// NewSessionFromTokens wraps tokens obtained earlier.
func (c *SDKClient) NewSessionFromTokens(accessToken, refreshToken string) *Session {
	return &Session{
		client:       c,
		accessToken:  accessToken,
		refreshToken: refreshToken,
	}
}
