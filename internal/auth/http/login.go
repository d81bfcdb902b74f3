package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mgplatform/mgapi/internal/auth/domain"
	"github.com/mgplatform/mgapi/internal/auth/service"
	"github.com/mgplatform/mgapi/pkg/authsdk"
	"github.com/mgplatform/mgapi/pkg/httpx"
	"github.com/mgplatform/mgapi/pkg/slogx"
)

const maxLoginBody = 1 << 16

// LoginHandler serves POST /api/auth/login.
type LoginHandler struct {
	AuthService *service.AuthService
	errors      errorWriter
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Verifies a login id and password and issues an HS512 access token and refresh token.
//	@Description	Only the access token is accepted as a bearer credential.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenResponse	"accessToken, refreshToken"
//	@Failure		400		{object}	httpx.ErrorResponse		"IPR - missing or blank fields"
//	@Failure		401		{object}	httpx.ErrorResponse		"UNFD - unknown login id, PNMH - wrong password"
//	@Failure		429		{object}	httpx.ErrorResponse		"TMR - too many attempts"
//	@Failure		500		{object}	httpx.ErrorResponse		"ISR"
//	@Header			200		{string}	Cache-Control			"no-store"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLoginBody)).Decode(&req); err != nil {
		h.errors.write(w, domain.InvalidParameter, err)
		return
	}
	if strings.TrimSpace(req.LoginID) == "" || strings.TrimSpace(req.Password) == "" {
		h.errors.write(w, domain.InvalidParameter, errors.New("loginId and password are required"))
		return
	}

	tokens, err := h.AuthService.Login(ctx, req.LoginID, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrUserNotFound):
		h.errors.write(w, domain.UserNonExists, err)
		return
	case errors.Is(err, service.ErrPasswordMismatch):
		h.errors.write(w, domain.PasswordNotMatch, err)
		return
	default:
		log.Error("login failed", "err", err)
		h.errors.write(w, domain.InternalServerError, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}
