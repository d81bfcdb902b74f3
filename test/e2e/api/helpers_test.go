package api_test

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgplatform/mgapi/internal/auth/app"
	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/internal/auth/store/drivers/sqlite"
	"github.com/mgplatform/mgapi/pkg/authsdk"
	"github.com/mgplatform/mgapi/pkg/cryptox"
	"github.com/mgplatform/mgapi/pkg/httpx"
	"github.com/stretchr/testify/require"
)

/*
 * Common constants and helpers for the API end-to-end tests. Each test runs
 * the fully wired application in-process against its own SQLite file.
 */

const (
	adminLoginID  = "admin"
	adminName     = "Administrator"
	adminPassword = "Admin123!"

	userID       = "01J00000000000000000000SP1"
	userLoginID  = "sp"
	userPassword = "1234"
)

var jwtSecret = strings.Repeat("e2e-secret-0123456789abcdef-", 3)

type service struct {
	baseURL string
	cfg     app.Config
	client  *authsdk.SDKClient
}

// testConfig returns a config rooted in dir with relaxed rate limits. Tests
// exercising the limiter reset them to the defaults.
func testConfig(dir string) app.Config {
	cfg := app.Defaults()
	cfg.JWTSecret = jwtSecret
	cfg.DatabaseFile = filepath.Join(dir, "mgapi.db")
	cfg.PepperFile = filepath.Join(dir, "pepper")
	cfg.SeedAdminLoginID = adminLoginID
	cfg.SeedAdminName = adminName
	cfg.SeedAdminPassword = adminPassword
	cfg.Env = "test"
	cfg.LogLevel = "error"

	relaxed := httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: cfg.LoginRateLimit.Window, Burst: 1000}
	cfg.LoginRateLimit = relaxed
	cfg.APIRateLimit = relaxed
	return cfg
}

// startService runs the application on an httptest server.
func startService(t *testing.T, cfg app.Config) *service {
	t.Helper()
	require.NoError(t, cfg.Validate())

	application, err := app.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = application.Close()
	})

	return &service{
		baseURL: srv.URL,
		cfg:     cfg,
		client:  authsdk.NewSDKClient(srv.URL),
	}
}

func setupService(t *testing.T) *service {
	t.Helper()
	s := startService(t, testConfig(t.TempDir()))
	s.addUser(t)
	return s
}

// addUser inserts the regular test account next to the seeded admin. It
// opens the database file directly since the API has no signup endpoint.
func (s *service) addUser(t *testing.T) {
	t.Helper()

	pepper, err := cryptox.LoadOrGeneratePepper(s.cfg.PepperFile)
	require.NoError(t, err)
	hash, err := cryptox.NewHasher(pepper).Hash(userPassword)
	require.NoError(t, err)

	st, err := sqlite.NewStore("file:" + s.cfg.DatabaseFile)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Users().CreateUser(t.Context(), domain.User{
		ID:           userID,
		LoginID:      userLoginID,
		PasswordHash: hash,
		DisplayName:  "Test User",
		Email:        "sp@example.com",
		Role:         domain.RoleUser,
	}))
}

func login(t *testing.T, s *service, loginID, password string) *authsdk.Session {
	t.Helper()
	session, err := s.client.Login(t.Context(), loginID, password)
	require.NoError(t, err)
	return session
}
