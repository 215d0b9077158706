package authsdk

import (
	"context"
	"net/http"
)

// Token issuer calls.

// Login exchanges credentials for a bearer token.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.call(ctx, http.MethodPost, "/auth/login", "",
		CredentialsRequest{Username: username, Password: password}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyToken asks the issuer whether token is valid and returns the username
// it was issued for. Every failure is an error: the issuer rejecting the
// token (ErrTokenExpired, ErrTokenInvalid), the issuer being unreachable
// (ErrUnavailable) or an answer that cannot be decoded. Callers gating
// access must treat any error as a rejection.
//
// SDKClient satisfies httpx.TokenVerifier through this method.
func (c *SDKClient) VerifyToken(ctx context.Context, token string) (string, error) {
	var out VerifyTokenResponse
	err := c.call(ctx, http.MethodPost, "/auth/verify", "",
		VerifyTokenRequest{Token: token}, &out, http.StatusOK)
	if err != nil {
		return "", err
	}
	if !out.Valid || out.Username == "" {
		return "", ErrTokenInvalid
	}
	return out.Username, nil
}
