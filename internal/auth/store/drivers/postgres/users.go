package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mgplatform/mgapi/internal/auth/domain"
)

const userColumns = `id, login_id, password_hash, display_name, email, role, created_at, updated_at`

type usersRepo struct {
	q querier
}

func (r *usersRepo) get(ctx context.Context, where string, arg string) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` = $1`, arg).
		Scan(&u.ID, &u.LoginID, &u.PasswordHash, &u.DisplayName, &u.Email, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.User{}, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.Role = parsed
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.get(ctx, "id", id)
}

func (r *usersRepo) GetUserByLoginID(ctx context.Context, loginID string) (domain.User, error) {
	return r.get(ctx, "login_id", loginID)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	_, err := r.q.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.LoginID, u.PasswordHash, u.DisplayName, u.Email, string(u.Role),
		u.CreatedAt, u.UpdatedAt,
	)
	return mapConstraint(err)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists); err != nil {
		return false, err
	}
	return !exists, nil
}
