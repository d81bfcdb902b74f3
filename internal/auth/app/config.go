package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mgplatform/mgapi/pkg/httpx"
	"github.com/mgplatform/mgapi/pkg/jwtx"
	"gopkg.in/yaml.v3"
)

// DefaultBypassPatterns are the paths the authentication pipeline skips.
var DefaultBypassPatterns = []string{
	"/email/**",
	"/swagger/**",
	"/livez",
	"/readyz",
	"/metrics",
}

type Config struct {
	JWTSecret       string        `yaml:"jwt_secret"`        // Required: HS512 secret, at least 64 bytes
	JWTIssuer       string        `yaml:"jwt_issuer"`        // Issuer claim for tokens (default: mg-api)
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`  // Access token lifetime (default: 30m)
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"` // Refresh token lifetime (default: 30 days)

	BypassPatterns []string      `yaml:"bypass_patterns"` // Paths skipped by the authentication pipeline
	LookupTimeout  time.Duration `yaml:"lookup_timeout"`  // Bound on the per-request user lookup (default: 3s)
	DevMessages    bool          `yaml:"dev_messages"`    // Include errorMessageDev in error bodies (default: false)

	StoreDriver  string `yaml:"store_driver"`  // sqlite or postgres (default: sqlite)
	DatabaseFile string `yaml:"database_file"` // SQLite database file (default: ./mgapi.db)
	DatabaseURL  string `yaml:"database_url"`  // Postgres connection string
	PepperFile   string `yaml:"pepper_file"`   // File holding the password pepper (default: ./pepper)

	SeedAdminLoginID  string `yaml:"seed_admin_login_id"` // Seeds an admin into an empty store when set
	SeedAdminPassword string `yaml:"seed_admin_password"` // Generated and logged once when empty
	SeedAdminName     string `yaml:"seed_admin_name"`
	SeedAdminEmail    string `yaml:"seed_admin_email"`

	SentryDSN string `yaml:"sentry_dsn"` // Optional: error reporting

	Env                 string        `yaml:"env"`                   // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        `yaml:"log_level"`             // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        `yaml:"log_format"`            // Log format (json, text) (default: json)
	Port                int           `yaml:"port"`                  // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period"` // Graceful shutdown timeout (default: 10s)

	LoginRateLimit  httpx.RateLimitConfig `yaml:"-"`
	APIRateLimit    httpx.RateLimitConfig `yaml:"-"`
	PublicRateLimit httpx.RateLimitConfig `yaml:"-"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		JWTIssuer:           "mg-api",
		AccessTokenTTL:      jwtx.DefaultAccessTokenTTL,
		RefreshTokenTTL:     jwtx.DefaultRefreshTokenTTL,
		BypassPatterns:      append([]string(nil), DefaultBypassPatterns...),
		LookupTimeout:       3 * time.Second,
		StoreDriver:         "sqlite",
		DatabaseFile:        "mgapi.db",
		PepperFile:          "pepper",
		Env:                 "dev",
		LogLevel:            "info",
		LogFormat:           "json",
		Port:                8080,
		ShutdownGracePeriod: 10 * time.Second,
		LoginRateLimit:      httpx.StrictLimit,
		APIRateLimit:        httpx.ModerateLimit,
		PublicRateLimit:     httpx.PublicLimit,
	}
}

// LoadConfig builds the configuration from, in increasing priority:
// defaults, the YAML file named by MG_CONFIG_FILE, a .env file in the
// working directory, and the process environment.
func LoadConfig() (Config, error) {
	return Load(os.Getenv("MG_CONFIG_FILE"), ".env")
}

// Load is LoadConfig with explicit file locations. Empty paths are skipped,
// as is a missing env file.
func Load(configPath, envFile string) (Config, error) {
	cfg := Defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", configPath, err)
		}
	}

	// godotenv never overrides variables already set, so the real
	// environment still wins.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.JWTSecret = getEnvOrDefault("JWT_SECRET_KEY", cfg.JWTSecret)
	cfg.JWTIssuer = getEnvOrDefault("JWT_ISSUER", cfg.JWTIssuer)

	// Lifetimes are whole minutes and days, as the legacy deployment set them.
	if minutes := getEnvIntOrDefault("JWT_ACCESS_TOKEN_EXPIRATION", 0); minutes > 0 {
		cfg.AccessTokenTTL = time.Duration(minutes) * time.Minute
	}
	if days := getEnvIntOrDefault("JWT_REFRESH_TOKEN_EXPIRATION", 0); days > 0 {
		cfg.RefreshTokenTTL = time.Duration(days) * 24 * time.Hour
	}

	if v := os.Getenv("AUTH_BYPASS_PATTERNS"); v != "" {
		cfg.BypassPatterns = splitList(v)
	}
	cfg.LookupTimeout = getEnvDurationOrDefault("AUTH_LOOKUP_TIMEOUT", cfg.LookupTimeout)
	cfg.DevMessages = getEnvBoolOrDefault("ERROR_INCLUDE_DEV_MESSAGE", cfg.DevMessages)

	cfg.StoreDriver = strings.ToLower(getEnvOrDefault("STORE_DRIVER", cfg.StoreDriver))
	cfg.DatabaseFile = getEnvOrDefault("DATABASE_FILE", cfg.DatabaseFile)
	cfg.DatabaseURL = getEnvOrDefault("DATABASE_URL", cfg.DatabaseURL)
	cfg.PepperFile = getEnvOrDefault("PEPPER_FILE", cfg.PepperFile)

	cfg.SeedAdminLoginID = getEnvOrDefault("SEED_ADMIN_LOGIN_ID", cfg.SeedAdminLoginID)
	cfg.SeedAdminPassword = getEnvOrDefault("SEED_ADMIN_PASSWORD", cfg.SeedAdminPassword)
	cfg.SeedAdminName = getEnvOrDefault("SEED_ADMIN_NAME", cfg.SeedAdminName)
	cfg.SeedAdminEmail = getEnvOrDefault("SEED_ADMIN_EMAIL", cfg.SeedAdminEmail)

	cfg.SentryDSN = getEnvOrDefault("SENTRY_DSN", cfg.SentryDSN)

	cfg.Env = getEnvOrDefault("ENV", cfg.Env)
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnvOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", cfg.ShutdownGracePeriod)

	cfg.LoginRateLimit = httpx.ParseRateLimitFromEnv("STRICT", cfg.LoginRateLimit)
	cfg.APIRateLimit = httpx.ParseRateLimitFromEnv("MODERATE", cfg.APIRateLimit)
	cfg.PublicRateLimit = httpx.ParseRateLimitFromEnv("PUBLIC", cfg.PublicRateLimit)
}

// Validate reports the first setting the service cannot start with.
func (c Config) Validate() error {
	if len(c.JWTSecret) < jwtx.MinSecretSize {
		return fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes, got %d", jwtx.MinSecretSize, len(c.JWTSecret))
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.LookupTimeout < 0 {
		return errors.New("lookup timeout must not be negative")
	}
	if _, err := httpx.NewPathMatcher(c.BypassPatterns...); err != nil {
		return fmt.Errorf("bypass patterns: %w", err)
	}

	switch c.StoreDriver {
	case "sqlite":
		if c.DatabaseFile == "" {
			return errors.New("DATABASE_FILE is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
