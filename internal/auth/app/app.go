package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mgplatform/mgapi/internal/auth/authn"
	"github.com/mgplatform/mgapi/internal/auth/domain"
	httpapi "github.com/mgplatform/mgapi/internal/auth/http"
	"github.com/mgplatform/mgapi/internal/auth/service"
	"github.com/mgplatform/mgapi/internal/auth/store"
	"github.com/mgplatform/mgapi/internal/auth/store/drivers/postgres"
	"github.com/mgplatform/mgapi/internal/auth/store/drivers/sqlite"
	"github.com/mgplatform/mgapi/internal/observability"
	"github.com/mgplatform/mgapi/pkg/cryptox"
	"github.com/mgplatform/mgapi/pkg/httpx"
	"github.com/mgplatform/mgapi/pkg/jwtx"
	"github.com/mgplatform/mgapi/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the API service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	codec    *jwtx.Codec
	hasher   *cryptox.Hasher
	metrics  *observability.Metrics
	reporter *observability.Reporter

	// Services
	authService      *service.AuthService
	userService      *service.UserService
	bootstrapService *service.BootstrapService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "mgapi",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: observability.NewMetrics(),
	}

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Env, BuildVersion); err != nil {
		// Reporting is optional; the service runs without it.
		app.logger.Warn("sentry init failed", "error", err)
	}
	app.reporter = observability.NewReporter(nil)

	pepper, err := cryptox.LoadOrGeneratePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewHasher(pepper)

	app.codec, err = jwtx.NewCodec(jwtx.CodecConfig{
		Secret:     []byte(cfg.JWTSecret),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.seedAdmin(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Handler exposes the fully wired HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("api service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down api service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	observability.FlushSentry()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("api service stopped")
	return nil
}

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.StoreDriver {
	case "postgres":
		db, err = postgres.New(context.Background(), postgres.Config{DSN: app.cfg.DatabaseURL})
	default:
		host := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
		db, err = sqlite.NewStore(host)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.StoreDriver)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db}
	app.authService = &service.AuthService{
		Store:     app.db,
		Passwords: app.hasher,
		Tokens:    app.codec,
		Observer:  app.metrics,
	}
	app.bootstrapService = &service.BootstrapService{
		Store:  app.db,
		Hasher: app.hasher,
	}
}

// seedAdmin creates the configured admin when the store holds no users.
func (app *Application) seedAdmin(ctx context.Context) error {
	if app.cfg.SeedAdminLoginID == "" {
		return nil
	}
	ctx = slogx.WithContext(ctx, app.logger)

	done, err := app.bootstrapService.IsBootstrapped(ctx)
	if err != nil {
		return fmt.Errorf("failed to check bootstrap state: %w", err)
	}
	if done {
		return nil
	}

	admin, password, err := app.bootstrapService.Bootstrap(ctx, domain.BootstrapData{
		AdminLoginID:     app.cfg.SeedAdminLoginID,
		AdminDisplayName: app.cfg.SeedAdminName,
		AdminEmail:       app.cfg.SeedAdminEmail,
		AdminPassword:    app.cfg.SeedAdminPassword,
	})
	switch {
	case errors.Is(err, service.ErrBootstrapAlready):
		return nil
	case err != nil:
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	if app.cfg.SeedAdminPassword == "" {
		app.logger.Warn("generated admin password, change it after first login",
			"login_id", admin.LoginID,
			"password", password,
		)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	bypass, err := httpx.NewPathMatcher(app.cfg.BypassPatterns...)
	if err != nil {
		return fmt.Errorf("invalid bypass patterns: %w", err)
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		BuildVersion: BuildVersion,
		Store:        app.db,
		Logger:       app.logger,
		Pipeline: authn.Config{
			Validator:     jwtx.NewValidator(app.codec),
			Users:         app.userService,
			Bypass:        bypass,
			LookupTimeout: app.cfg.LookupTimeout,
			Metrics:       app.metrics,
			Reporter:      app.reporter,
		},
		Metrics:       app.metrics,
		PanicReporter: app.reporter.ReportPanic,
		DevMessages:   app.cfg.DevMessages,
		RateLimits: httpapi.RateLimits{
			Login:  app.cfg.LoginRateLimit,
			API:    app.cfg.APIRateLimit,
			Public: app.cfg.PublicRateLimit,
		},
	})

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}

// Close releases the store without running the HTTP server shutdown.
func (app *Application) Close() error {
	return app.db.Close()
}
