package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopgate/internal/auth/service"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Checks the credentials with the credential store and returns a signed bearer token.
//	@Description	An unknown user and a wrong password return the same error.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CredentialsRequest	true	"username and password"
//	@Success		200		{object}	authsdk.LoginResponse		"access_token, token_type, expires_in, username"
//	@Failure		400		{object}	authsdk.ErrorResponse		"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse		"invalid_credentials"
//	@Failure		429		{object}	authsdk.ErrorResponse		"rate_limit_exceeded"
//	@Failure		503		{object}	authsdk.ErrorResponse		"upstream_unavailable"
//	@Header			200		{string}	Cache-Control				"no-store"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, ok := httpx.BindAndValidate[authsdk.CredentialsRequest](w, r, authsdk.ErrorCodeInvalidRequest)
	if !ok {
		return
	}

	tok, err := h.TokenService.Login(ctx, req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
		return
	case errors.Is(err, service.ErrUpstreamUnavailable):
		authsdk.ErrUpstreamUnavailable.WriteError(w)
		return
	default:
		log.Error("failed to issue token", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("token issued", "username", tok.Username)
	httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{
		AccessToken: tok.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(tok.TTL.Seconds()),
		Username:    tok.Username,
	})
}
