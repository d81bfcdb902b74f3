package authn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/internal/auth/store"
	"github.com/mgplatform/mgapi/pkg/cryptox"
	"github.com/mgplatform/mgapi/pkg/httpx"
	"github.com/mgplatform/mgapi/pkg/jwtx"
	"github.com/mgplatform/mgapi/pkg/slogx"
)

const bearerPrefix = "Bearer "

// TokenValidator is satisfied by *jwtx.Validator. Classify must parse the
// token once; the pipeline takes the kind and subject from the same result.
type TokenValidator interface {
	Classify(token string) (jwtx.Status, *jwtx.Claims)
}

// UserLoader resolves a token subject. A missing user is reported as
// store.ErrNotFound.
type UserLoader interface {
	LoadByID(ctx context.Context, userID string) (domain.User, error)
}

// OutcomeObserver counts pipeline outcomes.
type OutcomeObserver interface {
	ObserveAuthOutcome(outcome string)
}

// ErrorReporter receives the cause of every UNEXPECTED_ERROR outcome.
type ErrorReporter interface {
	ReportError(r *http.Request, stage string, err error)
}

type Config struct {
	Validator TokenValidator
	Users     UserLoader

	// Bypass lists paths the pipeline skips entirely. May be nil.
	Bypass *httpx.PathMatcher

	// LookupTimeout bounds the user lookup on top of the request deadline.
	// Zero means only the request deadline applies.
	LookupTimeout time.Duration

	Metrics  OutcomeObserver // optional
	Reporter ErrorReporter   // optional
}

// Middleware returns the authentication pipeline. It calls next exactly once
// per request, with the Outcome recorded in the request context unless the
// path is bypassed.
func Middleware(cfg Config) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Bypass.Match(r.URL.Path) {
				cfg.observe("bypassed")
				next.ServeHTTP(w, r)
				return
			}

			out := cfg.authenticate(r)
			cfg.observe(out.label())

			next.ServeHTTP(w, r.WithContext(WithOutcome(r.Context(), out)))
		})
	}
}

// authenticate never panics and never returns an error; anything that goes
// wrong on the way becomes ReasonUnexpectedError.
func (cfg Config) authenticate(r *http.Request) (out Outcome) {
	log := slogx.FromContext(r.Context())

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		log.Error("authentication panicked",
			slog.Any("panic", v),
			slog.String("stack", string(debug.Stack())),
		)
		cfg.report(r, "pipeline", fmt.Errorf("panic: %v", v))
		out = Outcome{Reason: ReasonUnexpectedError}
	}()

	token, ok := bearerToken(r)
	if !ok {
		return Outcome{Reason: ReasonNoToken}
	}

	status, claims := cfg.Validator.Classify(token)
	switch status {
	case jwtx.StatusValid:
	case jwtx.StatusExpired:
		log.Debug("expired token", slog.String("token_fp", cryptox.Fingerprint(token)))
		return Outcome{Reason: ReasonExpired}
	default:
		log.Debug("invalid token", slog.String("token_fp", cryptox.Fingerprint(token)))
		return Outcome{Reason: ReasonInvalid}
	}

	if !claims.IsAccess() {
		log.Warn("non-access token presented as bearer", slog.String("token_fp", cryptox.Fingerprint(token)))
		return Outcome{Reason: ReasonInvalid}
	}

	subject := claims.Subject
	if subject == "" {
		return Outcome{Reason: ReasonInvalid}
	}

	ctx := r.Context()
	if cfg.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.LookupTimeout)
		defer cancel()
	}

	user, err := cfg.Users.LoadByID(ctx, subject)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		log.Warn("token subject not found", slog.String("user_id", subject))
		return Outcome{Reason: ReasonInvalid}
	default:
		log.Error("user lookup failed",
			slog.String("user_id", subject),
			slog.Any("error", err),
		)
		cfg.report(r, "lookup", err)
		return Outcome{Reason: ReasonUnexpectedError}
	}

	return Outcome{Identity: NewPrincipal(user)}
}

// bearerToken returns the text after the exact "Bearer " prefix. A blank
// remainder counts as no token.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, bearerPrefix) {
		return "", false
	}
	token := h[len(bearerPrefix):]
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

func (cfg Config) observe(outcome string) {
	if cfg.Metrics != nil {
		cfg.Metrics.ObserveAuthOutcome(outcome)
	}
}

func (cfg Config) report(r *http.Request, stage string, err error) {
	if cfg.Reporter != nil {
		cfg.Reporter.ReportError(r, stage, err)
	}
}
