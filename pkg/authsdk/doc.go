/*
Package authsdk is the typed HTTP client shared by every shopgate service and
by tests that drive them.

# One client per service

An SDKClient wraps a base URL and an http.Client. The same type is used for
each role; create one per service:

	users := authsdk.NewSDKClient("http://127.0.0.1:5002")
	issuer := authsdk.NewSDKClient("http://127.0.0.1:5001", authsdk.WithTimeout(2*time.Second))
	orders := authsdk.NewSDKClient("http://127.0.0.1:5003")

	_, err := users.RegisterUser(ctx, "alice", "secret1")
	login, err := issuer.Login(ctx, "alice", "secret1")
	bought, err := orders.Buy(ctx, login.AccessToken, "alice", 1)

Every call is bounded by the client's Timeout and is never retried.

# Verification relay

SDKClient.VerifyToken satisfies httpx.TokenVerifier, so a resource service
gates its routes with:

	gate := httpx.RelayAuthn(authsdk.NewSDKClient(authURL))

The issuer's answer is the only source of truth. Any error returned by
VerifyToken, including ErrUnavailable, must be treated as a rejection.

# Proof-of-possession exchange

	pkce, _ := authsdk.GeneratePKCEChallenge()
	code, err := authz.Authorize(ctx, pkce.Challenge)
	tok, err := authz.ExchangeToken(ctx, code, pkce.Verifier)
	profile, err := resource.Profile(ctx, tok.AccessToken)

# Error Handling

Non-success responses are returned as *Error values carrying the status code
and the {"error","error_description"} body. Predefined errors compare with
errors.Is; HasCode matches on the code alone:

	_, err := issuer.VerifyToken(ctx, token)
	switch {
	case errors.Is(err, authsdk.ErrTokenExpired):
		// ask the user to log in again
	case authsdk.IsUnavailable(err):
		// issuer down
	}

Handlers write the same values with (*Error).WriteError.
*/
package authsdk
