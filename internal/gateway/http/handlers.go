package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopgate/internal/gateway/service"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

type GatewayHandler struct {
	Service *service.GatewayService
	Cookies CookieConfig
}

// writeServiceError maps gateway service errors onto responses.
func (h *GatewayHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrUserExists):
		authsdk.ErrUserExists.WriteError(w)
	case errors.Is(err, service.ErrArticleNotFound):
		authsdk.ErrArticleNotFound.WriteError(w)
	case errors.Is(err, service.ErrUpstreamUnavailable):
		authsdk.ErrUpstreamUnavailable.WriteError(w)
	case errors.Is(err, service.ErrRateLimited):
		authsdk.ErrRateLimited.WriteError(w)
	case errors.Is(err, service.ErrLoginRequired):
		if id := sessionID(r); id != "" {
			_ = h.Service.Logout(r.Context(), id)
		}
		h.Cookies.writeLoginRequired(w)
	default:
		slogx.FromContext(r.Context()).Error("gateway request failed", "error", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

// HandleLogin handles POST /login
//
//	@Summary		Log in
//	@Description	Logs in through the token issuer and sets the shopgate_session cookie.
//	@Tags			Gateway
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CredentialsRequest	true	"username and password"
//	@Success		200		{object}	authsdk.SessionResponse		"username"
//	@Failure		401		{object}	authsdk.ErrorResponse		"invalid_credentials"
//	@Failure		429		{object}	authsdk.ErrorResponse		"rate_limit_exceeded"
//	@Failure		503		{object}	authsdk.ErrorResponse		"upstream_unavailable"
//	@Router			/login [post].
func (h *GatewayHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := httpx.BindAndValidate[authsdk.CredentialsRequest](w, r, authsdk.ErrorCodeInvalidRequest)
	if !ok {
		return
	}

	sess, err := h.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(r.Context()).Info("session started", "username", sess.Username)
	h.Cookies.set(w, sess.ID)
	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{Username: sess.Username, CreatedAt: sess.CreatedAt})
}

// HandleRegister handles POST /register
//
//	@Summary		Register
//	@Tags			Gateway
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CredentialsRequest		true	"username and password"
//	@Success		201		{object}	authsdk.GatewayRegisterResponse	"username, redirect"
//	@Failure		400		{object}	authsdk.ErrorResponse			"invalid_request"
//	@Failure		409		{object}	authsdk.ErrorResponse			"user_exists"
//	@Failure		429		{object}	authsdk.ErrorResponse			"rate_limit_exceeded"
//	@Failure		503		{object}	authsdk.ErrorResponse			"upstream_unavailable"
//	@Router			/register [post].
func (h *GatewayHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := httpx.BindAndValidate[authsdk.CredentialsRequest](w, r, authsdk.ErrorCodeInvalidRequest)
	if !ok {
		return
	}

	username, err := h.Service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.GatewayRegisterResponse{Username: username, Redirect: "/login"})
}

// HandleLogout handles POST /logout
//
//	@Summary	Log out
//	@Tags		Gateway
//	@Success	204	"session cleared"
//	@Router		/logout [post].
func (h *GatewayHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), sessionID(r)); err != nil {
		slogx.FromContext(r.Context()).Warn("failed to delete session", "error", err)
	}
	h.Cookies.clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSession handles GET /session
//
//	@Summary	Current session
//	@Tags		Gateway
//	@Produce	json
//	@Success	200	{object}	authsdk.SessionResponse	"username"
//	@Failure	401	{object}	authsdk.ErrorResponse	"login_required"
//	@Router		/session [get].
func (h *GatewayHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{Username: sess.Username, CreatedAt: sess.CreatedAt})
}

// HandleHome handles GET /home
//
//	@Summary	Articles and purchases
//	@Tags		Gateway
//	@Produce	json
//	@Success	200	{object}	authsdk.HomeResponse	"user, articles, purchases"
//	@Failure	401	{object}	authsdk.ErrorResponse	"login_required"
//	@Failure	503	{object}	authsdk.ErrorResponse	"upstream_unavailable"
//	@Router		/home [get].
func (h *GatewayHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	home, err := h.Service.Home(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.HomeResponse{
		User:      home.Username,
		Articles:  home.Articles,
		Purchases: home.Purchases,
	})
}

// HandleBuy handles POST /buy
//
//	@Summary	Buy an article
//	@Tags		Gateway
//	@Accept		json
//	@Produce	json
//	@Param		request	body		authsdk.BuyRequest		true	"article_id"
//	@Success	201		{object}	authsdk.BuyResponse		"message, article, user"
//	@Failure	400		{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure	401		{object}	authsdk.ErrorResponse	"login_required"
//	@Failure	404		{object}	authsdk.ErrorResponse	"not_found"
//	@Router		/buy [post].
func (h *GatewayHandler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	req, ok := httpx.BindAndValidate[authsdk.BuyRequest](w, r, authsdk.ErrorCodeInvalidRequest)
	if !ok {
		return
	}

	resp, err := h.Service.Buy(r.Context(), sessionFromContext(r.Context()), *req.ArticleID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, resp)
}
