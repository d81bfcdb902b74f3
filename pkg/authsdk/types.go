package authsdk

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	LoginID  string `json:"loginId"  example:"sp"`
	Password string `json:"password" example:"1234"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	// AccessToken authenticates API calls as "Authorization: Bearer <token>".
	AccessToken string `json:"accessToken"`

	// RefreshToken is long-lived and never accepted as a bearer credential.
	RefreshToken string `json:"refreshToken"`
}

// UserResponse describes an account.
type UserResponse struct {
	UserID      string   `json:"userId"`
	LoginID     string   `json:"loginId"`
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email,omitempty"`
	Role        string   `json:"role"        example:"USER"`
	Authorities []string `json:"authorities" example:"ROLE_USER"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the readiness of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
}
