package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/internal/auth/service"
	"github.com/mgplatform/mgapi/internal/auth/store"
	"github.com/mgplatform/mgapi/internal/auth/store/drivers/sqlite"
	"github.com/mgplatform/mgapi/pkg/cryptox"
	"github.com/mgplatform/mgapi/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("0123456789abcdef", 4))

type recordingObserver struct {
	mu      sync.Mutex
	results []string
}

func (o *recordingObserver) ObserveLogin(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestCodec(t *testing.T) *jwtx.Codec {
	t.Helper()
	codec, err := jwtx.NewCodec(jwtx.CodecConfig{
		Secret:     testSecret,
		Issuer:     "mg-api",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return codec
}

func seedUser(t *testing.T, s store.Store, h *cryptox.Hasher, loginID, password string, role domain.Role) domain.User {
	t.Helper()
	hash, err := h.Hash(password)
	require.NoError(t, err)

	u := domain.User{
		ID:           "user-" + loginID,
		LoginID:      loginID,
		PasswordHash: hash,
		DisplayName:  "Display " + loginID,
		Role:         role,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	h := cryptox.NewHasher("test-pepper")
	codec := newTestCodec(t)
	obs := &recordingObserver{}

	sp := seedUser(t, s, h, "sp", "1234", domain.RoleUser)

	svc := &service.AuthService{
		Store:     s,
		Passwords: h,
		Tokens:    codec,
		Observer:  obs,
	}

	t.Run("valid credentials", func(t *testing.T) {
		pair, err := svc.Login(ctx, "sp", "1234")
		require.NoError(t, err)
		require.Len(t, strings.Split(pair.AccessToken, "."), 3)
		require.Len(t, strings.Split(pair.RefreshToken, "."), 3)

		access, err := codec.Parse(pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, sp.ID, access.Subject)
		require.Equal(t, jwtx.KindAccess, access.Kind)

		refresh, err := codec.Parse(pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, sp.ID, refresh.Subject)
		require.Equal(t, jwtx.KindRefresh, refresh.Kind)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "sp", "wrong")
		require.ErrorIs(t, err, service.ErrPasswordMismatch)
	})

	t.Run("unknown login id", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "1234")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("unsupported stored hash is an internal error", func(t *testing.T) {
		require.NoError(t, s.Users().CreateUser(ctx, domain.User{
			ID:           "user-legacy",
			LoginID:      "legacy",
			PasswordHash: "{noop}1234",
			Role:         domain.RoleUser,
		}))

		_, err := svc.Login(ctx, "legacy", "1234")
		require.ErrorIs(t, err, cryptox.ErrUnsupportedHash)
		require.NotErrorIs(t, err, service.ErrPasswordMismatch)
	})

	t.Run("observer saw every attempt", func(t *testing.T) {
		require.Equal(t, []string{
			service.LoginSuccess,
			service.LoginPasswordMismatch,
			service.LoginUnknownUser,
			service.LoginError,
		}, obs.results)
	})
}

func TestLoginWithoutObserver(t *testing.T) {
	s := newTestStore(t)
	h := cryptox.NewHasher("")
	seedUser(t, s, h, "sp", "1234", domain.RoleAdmin)

	svc := &service.AuthService{Store: s, Passwords: h, Tokens: newTestCodec(t)}
	_, err := svc.Login(context.Background(), "sp", "1234")
	require.NoError(t, err)
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	h := cryptox.NewHasher("")
	u := seedUser(t, s, h, "sp", "1234", domain.RoleUser)

	svc := &service.UserService{Store: s}

	got, err := svc.LoadByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "sp", got.LoginID)
	require.Equal(t, domain.RoleUser, got.Role)

	_, err = svc.LoadByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds admin with given password", func(t *testing.T) {
		s := newTestStore(t)
		h := cryptox.NewHasher("pepper")
		svc := &service.BootstrapService{Store: s, Hasher: h}

		done, err := svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.False(t, done)

		admin, password, err := svc.Bootstrap(ctx, domain.BootstrapData{
			AdminLoginID:  "admin",
			AdminEmail:    "admin@example.com",
			AdminPassword: "s3cret",
		})
		require.NoError(t, err)
		require.Equal(t, "s3cret", password)
		require.Equal(t, domain.RoleAdmin, admin.Role)
		require.Equal(t, "admin", admin.DisplayName)

		stored, err := s.Users().GetUserByLoginID(ctx, "admin")
		require.NoError(t, err)
		require.Equal(t, admin.ID, stored.ID)
		require.NoError(t, h.Verify("s3cret", stored.PasswordHash))

		done, err = svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.True(t, done)
	})

	t.Run("generates a password when none is given", func(t *testing.T) {
		s := newTestStore(t)
		h := cryptox.NewHasher("pepper")
		svc := &service.BootstrapService{Store: s, Hasher: h}

		admin, password, err := svc.Bootstrap(ctx, domain.BootstrapData{AdminLoginID: "admin"})
		require.NoError(t, err)
		require.NotEmpty(t, password)

		stored, err := s.Users().GetUserByID(ctx, admin.ID)
		require.NoError(t, err)
		require.NoError(t, h.Verify(password, stored.PasswordHash))
	})

	t.Run("refuses a second bootstrap", func(t *testing.T) {
		s := newTestStore(t)
		svc := &service.BootstrapService{Store: s, Hasher: cryptox.NewHasher("")}

		_, _, err := svc.Bootstrap(ctx, domain.BootstrapData{AdminLoginID: "admin", AdminPassword: "x"})
		require.NoError(t, err)

		_, _, err = svc.Bootstrap(ctx, domain.BootstrapData{AdminLoginID: "other", AdminPassword: "x"})
		require.ErrorIs(t, err, service.ErrBootstrapAlready)
	})

	t.Run("requires a login id", func(t *testing.T) {
		s := newTestStore(t)
		svc := &service.BootstrapService{Store: s, Hasher: cryptox.NewHasher("")}

		_, _, err := svc.Bootstrap(ctx, domain.BootstrapData{AdminLoginID: "  "})
		require.ErrorIs(t, err, service.ErrBootstrapInvalid)
	})
}
