package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/internal/auth/store"
	"github.com/mgplatform/mgapi/pkg/cryptox"
	"github.com/mgplatform/mgapi/pkg/jwtx"
	"github.com/mgplatform/mgapi/pkg/slogx"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrPasswordMismatch = errors.New("password does not match")
)

// TokenIssuer mints the token pair handed out at login.
type TokenIssuer interface {
	IssueAccessToken(s jwtx.Subject) (string, error)
	IssueRefreshToken(s jwtx.Subject) (string, error)
}

// LoginObserver is told how every login attempt ended.
type LoginObserver interface {
	ObserveLogin(result string)
}

// Login outcomes reported to the LoginObserver.
const (
	LoginSuccess          = "success"
	LoginUnknownUser      = "unknown_user"
	LoginPasswordMismatch = "password_mismatch"
	LoginError            = "error"
)

// AuthService implements password login. It persists nothing: the issued
// tokens are self-contained.
type AuthService struct {
	Store     store.Store
	Passwords cryptox.PasswordVerifier
	Tokens    TokenIssuer
	Observer  LoginObserver // optional
}

// Login checks loginID and password against the credential store and returns
// a fresh access and refresh token.
func (s *AuthService) Login(ctx context.Context, loginID, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByLoginID(ctx, loginID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.observe(LoginUnknownUser)
			l.Info("login rejected", slog.String("reason", LoginUnknownUser))
			return domain.TokenPair{}, ErrUserNotFound
		}
		s.observe(LoginError)
		return domain.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.Passwords.Verify(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			s.observe(LoginPasswordMismatch)
			l.Info("login rejected",
				slog.String("reason", LoginPasswordMismatch),
				slog.String("user_id", user.ID),
			)
			return domain.TokenPair{}, ErrPasswordMismatch
		}
		s.observe(LoginError)
		return domain.TokenPair{}, fmt.Errorf("verify password for %s: %w", user.ID, err)
	}

	access, err := s.Tokens.IssueAccessToken(user)
	if err != nil {
		s.observe(LoginError)
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Tokens.IssueRefreshToken(user)
	if err != nil {
		s.observe(LoginError)
		return domain.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	s.observe(LoginSuccess)
	l.Info("login succeeded", slog.String("user_id", user.ID))

	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) observe(result string) {
	if s.Observer != nil {
		s.Observer.ObserveLogin(result)
	}
}
