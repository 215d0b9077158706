package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aussiebroadwan/shopgate/pkg/cryptox"
)

// PKCEChallenge represents a verifier and the S256 challenge derived from it.
type PKCEChallenge struct {
	// Verifier is the high-entropy secret the client keeps until the exchange
	Verifier string

	// Challenge is base64url(SHA256(verifier)) without padding
	Challenge string

	// Method is always "S256"
	Method string
}

// GeneratePKCEChallenge creates a new verifier and challenge pair.
func GeneratePKCEChallenge() (*PKCEChallenge, error) {
	verifier, err := cryptox.GenerateVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PKCE verifier: %w", err)
	}
	return NewPKCEChallenge(verifier), nil
}

// NewPKCEChallenge derives the challenge for a caller supplied verifier.
func NewPKCEChallenge(verifier string) *PKCEChallenge {
	return &PKCEChallenge{
		Verifier:  verifier,
		Challenge: cryptox.S256Challenge(verifier),
		Method:    "S256",
	}
}

// ============================================================================
// Authorization role
// ============================================================================

// Authorize registers a code challenge and returns the single use code.
func (c *SDKClient) Authorize(ctx context.Context, codeChallenge string) (string, error) {
	var out AuthorizeResponse
	err := c.call(ctx, http.MethodPost, "/authorize", "",
		AuthorizeRequest{CodeChallenge: codeChallenge}, &out, http.StatusOK)
	if err != nil {
		return "", err
	}
	return out.AuthorizationCode, nil
}

// ExchangeToken redeems a code with the verifier whose challenge was sent to
// Authorize.
func (c *SDKClient) ExchangeToken(ctx context.Context, code, verifier string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.call(ctx, http.MethodPost, "/token", "",
		TokenRequest{AuthorizationCode: code, CodeVerifier: verifier}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AuthorizeAndExchange runs both legs of the exchange for a fresh verifier.
func (c *SDKClient) AuthorizeAndExchange(ctx context.Context) (*TokenResponse, error) {
	pkce, err := GeneratePKCEChallenge()
	if err != nil {
		return nil, err
	}
	code, err := c.Authorize(ctx, pkce.Challenge)
	if err != nil {
		return nil, err
	}
	return c.ExchangeToken(ctx, code, pkce.Verifier)
}

// ============================================================================
// Resource role
// ============================================================================

// RegisterToken adds an opaque token to the resource role's valid set. The
// outcome is reported in the shape the authorization role returns to its
// callers: status "called" whenever the resource answered (including
// non-2xx), "failed" with the error when it could not be reached. The error
// is non-nil only in the failed case.
func (c *SDKClient) RegisterToken(ctx context.Context, token string) (ResourceRegister, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(RegisterTokenRequest{AccessToken: token})
	if err != nil {
		return ResourceRegister{Status: RegisterFailed, Error: err.Error()}, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/register-token", bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"})
	if err != nil {
		return ResourceRegister{Status: RegisterFailed, Error: err.Error()}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResourceRegister{Status: RegisterFailed, Error: err.Error()}, err
	}

	result := ResourceRegister{Status: RegisterCalled, HTTPStatus: resp.StatusCode}
	if json.Valid(raw) {
		result.Response = raw
	}
	return result, nil
}

// Profile returns the profile guarded by the opaque token.
func (c *SDKClient) Profile(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.call(ctx, http.MethodGet, "/profile", token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SecurityLog returns every security event in append order.
func (c *SDKClient) SecurityLog(ctx context.Context) ([]SecurityEvent, error) {
	var out []SecurityEvent
	if err := c.call(ctx, http.MethodGet, "/security-log", "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProducts returns the resource role's catalog.
func (c *SDKClient) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.call(ctx, http.MethodGet, "/products", "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProduct adds a product and returns its id.
func (c *SDKClient) CreateProduct(ctx context.Context, req CreateProductRequest) (int64, error) {
	var out CreateProductResponse
	if err := c.call(ctx, http.MethodPost, "/products", "", req, &out, http.StatusCreated); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// PlaceOrder creates an order from the given lines.
func (c *SDKClient) PlaceOrder(ctx context.Context, token string, lines ...OrderLine) (int64, error) {
	var out PlaceOrderResponse
	if err := c.call(ctx, http.MethodPost, "/orders", token,
		PlaceOrderRequest{Items: lines}, &out, http.StatusCreated); err != nil {
		return 0, err
	}
	return out.OrderID, nil
}

// ListOrders returns the order history, newest first.
func (c *SDKClient) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var out []Order
	if err := c.call(ctx, http.MethodGet, "/orders", token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}
