package authsdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNotReady is returned by GetReadiness when the service answers but one
// of its dependencies is down. The degraded report is returned alongside.
var ErrNotReady = errors.New("authsdk: service not ready")

// GetLiveness reports whether the process is up. It does not touch the
// credential store.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness reports whether the service can serve logins. A 503 carries
// the same report as a 200, so it is decoded and paired with ErrNotReady
// instead of being treated as an error body.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		var health HealthResponse
		if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
			return nil, err
		}
		return &health, nil
	}

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil || health.Status == "" {
		return nil, parseErrorResponse(resp, body)
	}
	return &health, fmt.Errorf("%w: %s", ErrNotReady, health.Status)
}
