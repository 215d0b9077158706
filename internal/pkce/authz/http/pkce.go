package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopgate/internal/pkce/authz/service"
	"github.com/aussiebroadwan/shopgate/internal/platform/metrics"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/cryptox"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

type PKCEHandler struct {
	AuthorizeService *service.AuthorizeService

	metrics *metrics.Collector
}

// HandleAuthorize handles POST /authorize
//
//	@Summary	Request an authorization code
//	@Tags		PKCE
//	@Accept		json
//	@Produce	json
//	@Param		request	body		authsdk.AuthorizeRequest	true	"code_challenge"
//	@Success	200		{object}	authsdk.AuthorizeResponse	"message, authorization_code"
//	@Failure	400		{object}	authsdk.ErrorResponse		"missing_code_challenge"
//	@Failure	429		{object}	authsdk.ErrorResponse		"rate_limit_exceeded"
//	@Router		/authorize [post].
func (h *PKCEHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httpx.BindAndValidate[authsdk.AuthorizeRequest](w, r, authsdk.ErrorCodeMissingCodeChallenge)
	if !ok {
		return
	}

	code, err := h.AuthorizeService.Authorize(ctx, req.CodeChallenge)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrMissingCodeChallenge):
		authsdk.ErrMissingCodeChallenge.WriteError(w)
		return
	default:
		slogx.FromContext(ctx).Error("failed to issue authorization code", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthorizeResponse{
		Message:           "challenge received",
		AuthorizationCode: code,
	})
}

// HandleToken handles POST /token
//
//	@Summary		Exchange a code and verifier for a token
//	@Description	The code is consumed on success only. The new token is registered with the resource role
//	@Description	on a best-effort basis and the outcome is reported in resource_register.
//	@Tags			PKCE
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.TokenRequest	true	"authorization_code, code_verifier"
//	@Success		200		{object}	authsdk.TokenResponse	"access_token, token_type, resource_register"
//	@Failure		400		{object}	authsdk.ErrorResponse	"missing_parameters, invalid_authorization_code or invalid_code_verifier"
//	@Failure		429		{object}	authsdk.ErrorResponse	"rate_limit_exceeded"
//	@Router			/token [post].
func (h *PKCEHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, ok := httpx.BindAndValidate[authsdk.TokenRequest](w, r, authsdk.ErrorCodeMissingParameters)
	if !ok {
		h.metrics.RecordExchange(authsdk.ErrorCodeMissingParameters)
		return
	}

	out, err := h.AuthorizeService.Exchange(ctx, req.AuthorizationCode, req.CodeVerifier)
	if err != nil {
		apiErr := exchangeError(err)
		if apiErr == authsdk.ErrServerError {
			log.Error("failed to exchange authorization code", "error", err)
		}
		h.metrics.RecordExchange(apiErr.Code)
		apiErr.WriteError(w)
		return
	}

	h.metrics.RecordExchange("ok")
	log.Info("authorization code redeemed", "token", cryptox.FingerprintToken(out.AccessToken), "resource_register", out.Registration.Status)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		Message:          "pkce verified",
		AccessToken:      out.AccessToken,
		TokenType:        "Bearer",
		ResourceRegister: out.Registration,
	})
}

func exchangeError(err error) *authsdk.Error {
	switch {
	case errors.Is(err, service.ErrMissingParameters):
		return authsdk.ErrMissingParameters
	case errors.Is(err, service.ErrInvalidAuthorizationCode):
		return authsdk.ErrInvalidAuthorizationCode
	case errors.Is(err, service.ErrInvalidCodeVerifier):
		return authsdk.ErrInvalidCodeVerifier
	default:
		return authsdk.ErrServerError
	}
}
