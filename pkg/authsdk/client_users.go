package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Credential store calls.

// RegisterUser creates a user. A taken username returns an *Error matching
// ErrUserExists.
func (c *SDKClient) RegisterUser(ctx context.Context, username, password string) (*RegisterUserResponse, error) {
	var out RegisterUserResponse
	err := c.call(ctx, http.MethodPost, "/users", "",
		CredentialsRequest{Username: username, Password: password}, &out, http.StatusCreated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyCredentials reports whether the password matches the stored hash.
// An unknown user is false, not an error.
func (c *SDKClient) VerifyCredentials(ctx context.Context, username, password string) (bool, error) {
	var out VerifyCredentialsResponse
	err := c.call(ctx, http.MethodPost, "/users/verify", "",
		CredentialsRequest{Username: username, Password: password}, &out, http.StatusOK)
	if err != nil {
		return false, err
	}
	return out.Valid, nil
}

// GetUser looks up a user by username.
func (c *SDKClient) GetUser(ctx context.Context, username string) (*User, error) {
	var out User
	err := c.call(ctx, http.MethodGet, "/users/"+url.PathEscape(username), "", nil, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
