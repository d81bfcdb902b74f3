package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mgplatform/mgapi/internal/auth/authn"
	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/internal/auth/service"
	"github.com/mgplatform/mgapi/internal/auth/store"
	"github.com/mgplatform/mgapi/internal/observability"
	"github.com/mgplatform/mgapi/pkg/httpx"
	"github.com/mgplatform/mgapi/pkg/slogx"

	_ "github.com/mgplatform/mgapi/api/docs" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// RateLimits holds the limiter profiles per endpoint class. Zero values fall
// back to the httpx defaults.
type RateLimits struct {
	Login  httpx.RateLimitConfig
	API    httpx.RateLimitConfig
	Public httpx.RateLimitConfig
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	metrics      *observability.Metrics
	limits       RateLimits

	authz  authn.Authorizer
	errors errorWriter

	AuthService *service.AuthService
	UserService *service.UserService
}

// RouterConfig collects what NewRouter needs besides the services.
type RouterConfig struct {
	BuildVersion string
	Store        store.Store
	Logger       *slog.Logger

	// Pipeline configures the authentication stage run on every request.
	Pipeline authn.Config

	Metrics       *observability.Metrics // optional; also serves /metrics
	PanicReporter httpx.PanicReporter    // optional
	DevMessages   bool
	RateLimits    RateLimits
}

func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: cfg.BuildVersion,
		startTime:    time.Now(),
		logger:       cfg.Logger,
		store:        cfg.Store,
		metrics:      cfg.Metrics,
		limits:       withDefaults(cfg.RateLimits),
		authz:        authn.Authorizer{DevMessages: cfg.DevMessages},
		errors:       errorWriter{devMessages: cfg.DevMessages},
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	// Logger outermost so recovered panics carry the request id.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(cfg.PanicReporter),
	}
	if r.metrics != nil {
		r.middlewares = append(r.middlewares, r.metrics.Middleware)
	}
	r.middlewares = append(r.middlewares, authn.Middleware(cfg.Pipeline))

	return r
}

func withDefaults(l RateLimits) RateLimits {
	if l.Login.RequestsPerWindow == 0 {
		l.Login = httpx.StrictLimit
	}
	if l.API.RequestsPerWindow == 0 {
		l.API = httpx.ModerateLimit
	}
	if l.Public.RequestsPerWindow == 0 {
		l.Public = httpx.PublicLimit
	}
	return l
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			mgapi Authentication API
//	@version		0.1.0
//	@description	Stateless JWT authentication. Log in to obtain an HS512 access token and send it as a bearer token.
//	@description
//	@description	Errors share one body: status, errorCode, message, timestamp.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(withFallbacks(r.Mux, r.errors), r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit by IP (brute force prevention)
	loginHandler := &LoginHandler{AuthService: r.AuthService, errors: r.errors}
	r.Mux.Handle("POST /api/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(r.limits.Login),
		),
	)
}

func (r *Router) registerUsers() {
	me := httpx.Chain(&MeHandler{errors: r.errors},
		httpx.RateLimitByIP(r.limits.API),
		r.authz.RequireAnyRole(domain.RoleAdmin, domain.RoleUser),
	)
	r.Mux.Handle("GET /api/users/me", me)

	user := httpx.Chain(&UserHandler{UserService: r.UserService, errors: r.errors},
		httpx.RateLimitByIP(r.limits.API),
		r.authz.RequireAnyRole(domain.RoleAdmin),
	)
	r.Mux.Handle("GET /api/admin/users/{id}", user)
}

func (r *Router) registerSystem() {
	// Health check endpoints - public limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(r.limits.Public),
		),
	)
	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
