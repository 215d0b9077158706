package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopgate/internal/users/service"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleRegister handles POST /users
//
//	@Summary		Register a user
//	@Description	Creates a user. The username is trimmed and lowercased before it is stored.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CredentialsRequest		true	"username and password"
//	@Success		201		{object}	authsdk.RegisterUserResponse	"username"
//	@Failure		400		{object}	authsdk.ErrorResponse			"invalid_request"
//	@Failure		409		{object}	authsdk.ErrorResponse			"user_exists"
//	@Failure		429		{object}	authsdk.ErrorResponse			"rate_limit_exceeded"
//	@Router			/users [post].
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	req, ok := httpx.BindAndValidate[authsdk.CredentialsRequest](w, r, authsdk.ErrorCodeInvalidRequest)
	if !ok {
		return
	}

	u, err := h.UserService.Register(ctx, req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	case errors.Is(err, service.ErrUserExists):
		authsdk.ErrUserExists.WriteError(w)
		return
	default:
		log.Error("failed to register user", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("user registered", "username", u.Username)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterUserResponse{Username: u.Username})
}

// HandleVerify handles POST /users/verify
//
//	@Summary		Verify credentials
//	@Description	Reports whether the password matches. An unknown user is valid=false, never an error.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CredentialsRequest			true	"username and password"
//	@Success		200		{object}	authsdk.VerifyCredentialsResponse	"valid"
//	@Failure		400		{object}	authsdk.VerifyCredentialsResponse	"valid=false"
//	@Router			/users/verify [post].
func (h *UsersHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := httpx.Bind[authsdk.CredentialsRequest](r)
	if err != nil {
		writeInvalidVerify(w, err.Error())
		return
	}

	valid, err := h.UserService.Verify(ctx, req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidRequest):
		writeInvalidVerify(w, "username and password are required")
		return
	default:
		slogx.FromContext(ctx).Error("failed to verify credentials", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyCredentialsResponse{Valid: valid})
}

func writeInvalidVerify(w http.ResponseWriter, desc string) {
	httpx.WriteJSON(w, http.StatusBadRequest, map[string]any{
		"valid":             false,
		"error":             authsdk.ErrorCodeInvalidRequest,
		"error_description": desc,
	})
}

// HandleLookup handles GET /users/{username}
//
//	@Summary		Look up a user
//	@Tags			Users
//	@Produce		json
//	@Param			username	path		string					true	"username"
//	@Success		200			{object}	authsdk.User			"id, username"
//	@Failure		404			{object}	authsdk.ErrorResponse	"not_found"
//	@Router			/users/{username} [get].
func (h *UsersHandler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.UserService.Lookup(ctx, r.PathValue("username"))
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
		return
	default:
		slogx.FromContext(ctx).Error("failed to look up user", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.User{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	})
}
