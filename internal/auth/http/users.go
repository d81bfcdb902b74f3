package http

import (
	"errors"
	"net/http"

	"github.com/mgplatform/mgapi/internal/auth/authn"
	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/internal/auth/service"
	"github.com/mgplatform/mgapi/internal/auth/store"
	"github.com/mgplatform/mgapi/pkg/authsdk"
	"github.com/mgplatform/mgapi/pkg/httpx"
	"github.com/mgplatform/mgapi/pkg/slogx"
)

// MeHandler serves GET /api/users/me from the identity the authentication
// pipeline attached.
type MeHandler struct {
	errors errorWriter
}

// ServeHTTP godoc
//
//	@Summary		Current user
//	@Description	Returns the account behind the bearer token. Requires ROLE_ADMIN or ROLE_USER.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"TNES, ITN, TED or UAD"
//	@Failure		403	{object}	httpx.ErrorResponse	"ADD"
//	@Router			/api/users/me [get].
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := authn.PrincipalFromContext(r.Context())
	if !ok {
		h.errors.write(w, domain.Unauthorized, nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		UserID:      p.UserID,
		LoginID:     p.LoginID,
		DisplayName: p.DisplayName,
		Role:        string(p.Role),
		Authorities: p.Authorities,
	})
}

// UserHandler serves GET /api/admin/users/{id}.
type UserHandler struct {
	UserService *service.UserService
	errors      errorWriter
}

// ServeHTTP godoc
//
//	@Summary		Get user
//	@Description	Looks up any account by id. Requires ROLE_ADMIN.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string	true	"User ID"
//	@Success		200	{object}	authsdk.UserResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"TNES, ITN, TED or UAD"
//	@Failure		403	{object}	httpx.ErrorResponse	"ADD"
//	@Failure		404	{object}	httpx.ErrorResponse	"NFD"
//	@Router			/api/admin/users/{id} [get].
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	user, err := h.UserService.GetUserByID(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		h.errors.write(w, domain.NotFound, err)
		return
	default:
		slogx.FromContext(ctx).Warn("failed to load user", "user_id", userID, "err", err)
		h.errors.write(w, domain.InternalServerError, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserResponse{
		UserID:      user.ID,
		LoginID:     user.LoginID,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        string(user.Role),
		Authorities: user.Authorities(),
	})
}
