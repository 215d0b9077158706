package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopgate/internal/auth/service"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

// VerifyHandler serves POST /auth/verify for the other services.
type VerifyHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP godoc
//
//	@Summary		Verify a token
//	@Description	Validates signature and expiry. Services never decode tokens themselves; they relay them here.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyTokenRequest	true	"token"
//	@Success		200		{object}	authsdk.VerifyTokenResponse	"username, valid"
//	@Failure		400		{object}	authsdk.ErrorResponse		"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse		"token expired or token invalid"
//	@Router			/auth/verify [post].
func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	req, ok := httpx.BindAndValidate[authsdk.VerifyTokenRequest](w, r, authsdk.ErrorCodeInvalidRequest)
	if !ok {
		return
	}

	username, err := h.TokenService.Verify(req.Token)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrTokenExpired):
		authsdk.ErrTokenExpired.WriteError(w)
		return
	default:
		log.Debug("token rejected", "error", err)
		authsdk.ErrTokenInvalid.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyTokenResponse{Username: username, Valid: true})
}
