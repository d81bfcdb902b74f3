package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/internal/auth/store"
	"github.com/mgplatform/mgapi/pkg/cryptox"
	"github.com/mgplatform/mgapi/pkg/idx"
	"github.com/mgplatform/mgapi/pkg/slogx"
)

var (
	ErrBootstrapAlready             = errors.New("system already bootstrapped")
	ErrBootstrapInvalid             = errors.New("bootstrap requires an admin login id")
	ErrBootstrapFailedToCreateAdmin = errors.New("failed to create admin user")
)

// PasswordHasher hashes new passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// BootstrapService seeds the first admin account into an empty store.
type BootstrapService struct {
	Store  store.Store
	Hasher PasswordHasher
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the admin described by req. When req.AdminPassword is
// empty a random password is generated; the password actually used is
// returned so the caller can show it once.
func (s *BootstrapService) Bootstrap(ctx context.Context, req domain.BootstrapData) (domain.User, string, error) {
	l := slogx.FromContext(ctx)

	loginID := strings.TrimSpace(req.AdminLoginID)
	if loginID == "" {
		return domain.User{}, "", ErrBootstrapInvalid
	}

	password := req.AdminPassword
	if password == "" {
		generated, err := cryptox.GeneratePassword()
		if err != nil {
			return domain.User{}, "", fmt.Errorf("generate admin password: %w", err)
		}
		password = generated
	}

	passHash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return domain.User{}, "", ErrBootstrapFailedToCreateAdmin
	}

	displayName := req.AdminDisplayName
	if displayName == "" {
		displayName = loginID
	}

	admin := domain.User{
		ID:           idx.New().String(),
		LoginID:      loginID,
		PasswordHash: passHash,
		DisplayName:  displayName,
		Email:        req.AdminEmail,
		Role:         domain.RoleAdmin,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Re-check inside the transaction so two instances racing on an
		// empty database seed only once.
		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrBootstrapAlready
		}

		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			l.Error("failed to create admin user",
				slog.String("admin_user_id", admin.ID),
				slog.Any("error", err),
			)
			return ErrBootstrapFailedToCreateAdmin
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBootstrapAlready) {
			l.Warn("attempted bootstrap on already-bootstrapped system")
		}
		return domain.User{}, "", err
	}

	l.Info("successfully bootstrapped system",
		slog.String("admin_user_id", admin.ID),
		slog.String("admin_login_id", admin.LoginID),
	)
	return admin, password, nil
}
