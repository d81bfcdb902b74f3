package service

import (
	"context"

	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/internal/auth/store"
)

// UserService adapts the credential store to the request pipeline and the
// user endpoints.
type UserService struct {
	Store store.Store
}

// GetUserByID fetches a user by id. store.ErrNotFound is passed through.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// LoadByID resolves the subject of an access token.
func (s *UserService) LoadByID(ctx context.Context, userID string) (domain.User, error) {
	return s.GetUserByID(ctx, userID)
}
