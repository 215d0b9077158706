package authsdk

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the wire shape of every error body.
type ErrorResponse struct {
	Error            string `json:"error" example:"invalid_request"`
	ErrorDescription string `json:"error_description" example:"the request is malformed or missing required parameters"`
}

// ============================================================================
// Credential Store
// ============================================================================

// CredentialsRequest carries a username and password. It is the body of
// registration, credential verification and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,notblank" example:"alice"`
	Password string `json:"password" validate:"required" example:"secret1"`
}

// RegisterUserResponse is returned by POST /users.
type RegisterUserResponse struct {
	Username string `json:"username" example:"alice"`
}

// VerifyCredentialsResponse is returned by POST /users/verify.
type VerifyCredentialsResponse struct {
	Valid bool `json:"valid" example:"true"`
}

// User is the public view of a stored user.
type User struct {
	ID        string    `json:"id" example:"01JAB2C3D4E5F6G7H8J9K0MNPQ"`
	Username  string    `json:"username" example:"alice"`
	CreatedAt time.Time `json:"created_at"`
}

// ============================================================================
// Token Issuer
// ============================================================================

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int    `json:"expires_in" example:"1800"`
	Username    string `json:"username" example:"alice"`
}

// VerifyTokenRequest is the body of POST /auth/verify.
type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required,notblank"`
}

// VerifyTokenResponse is returned by POST /auth/verify for a valid token.
type VerifyTokenResponse struct {
	Username string `json:"username" example:"alice"`
	Valid    bool   `json:"valid" example:"true"`
}

// ============================================================================
// Orders
// ============================================================================

type Article struct {
	ID   int    `json:"id" example:"1"`
	Name string `json:"name" example:"Article 1"`
}

type ArticlesResponse struct {
	Articles []Article `json:"articles"`
}

// PurchasesResponse lists the article names a user bought, oldest first.
type PurchasesResponse struct {
	User      string   `json:"user" example:"alice"`
	Purchases []string `json:"purchases"`
}

// BuyRequest is the body of POST /orders/{username}/buy. ArticleID is a
// pointer so a missing field is distinguishable from zero.
type BuyRequest struct {
	ArticleID *int `json:"article_id" validate:"required" example:"1"`
}

type BuyResponse struct {
	Message string  `json:"message" example:"purchase recorded"`
	Article Article `json:"article"`
	User    string  `json:"user" example:"alice"`
}

// ============================================================================
// Gateway
// ============================================================================

type SessionResponse struct {
	Username  string    `json:"username" example:"alice"`
	CreatedAt time.Time `json:"created_at"`
}

type HomeResponse struct {
	User      string    `json:"user" example:"alice"`
	Articles  []Article `json:"articles"`
	Purchases []string  `json:"purchases"`
}

type GatewayRegisterResponse struct {
	Username string `json:"username" example:"alice"`
	Redirect string `json:"redirect" example:"/login"`
}

// ============================================================================
// Proof-of-possession exchange
// ============================================================================

type AuthorizeRequest struct {
	CodeChallenge string `json:"code_challenge" example:"bPfG0k2Ez1YvVY0t0Z0mCkE1sBs2oJp4jS6xJbZ0vXw"`
}

type AuthorizeResponse struct {
	Message           string `json:"message" example:"challenge received"`
	AuthorizationCode string `json:"authorization_code"`
}

type TokenRequest struct {
	AuthorizationCode string `json:"authorization_code"`
	CodeVerifier      string `json:"code_verifier" example:"abc123"`
}

// Registration outcomes reported in TokenResponse.ResourceRegister.
const (
	RegisterNotCalled = "not_called"
	RegisterCalled    = "called"
	RegisterFailed    = "failed"
)

// ResourceRegister reports how the best-effort registration of a new token
// with the resource role went. Response holds the resource's JSON body when
// it answered; Error holds the transport failure when it did not.
type ResourceRegister struct {
	Status     string          `json:"status" example:"called"`
	HTTPStatus int             `json:"http_status,omitempty" example:"200"`
	Response   json.RawMessage `json:"response,omitempty" swaggertype:"object"`
	Error      string          `json:"error,omitempty"`
}

type TokenResponse struct {
	Message          string           `json:"message" example:"pkce verified"`
	AccessToken      string           `json:"access_token"`
	TokenType        string           `json:"token_type" example:"Bearer"`
	ResourceRegister ResourceRegister `json:"resource_register"`
}

type RegisterTokenRequest struct {
	AccessToken string `json:"access_token"`
}

type RegisterTokenResponse struct {
	Message string `json:"message" example:"token registered"`
}

type Profile struct {
	Username string `json:"username" example:"victor"`
	Email    string `json:"email" example:"victor@example.com"`
	Role     string `json:"role" example:"student"`
	Status   string `json:"status" example:"Authenticated with PKCE demo"`
}

// SecurityEvent is one entry of the resource role's security log.
type SecurityEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Event     string         `json:"event" example:"token_ok"`
	Details   map[string]any `json:"details"`
}

type Product struct {
	ID          int64           `json:"id" example:"1"`
	Name        string          `json:"name" example:"Go in Action"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"29.90"`
	Description string          `json:"description"`
}

// CreateProductRequest uses a pointer price so an absent price is rejected
// rather than read as zero.
type CreateProductRequest struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" example:"19.99"`
	Description string           `json:"description"`
}

type CreateProductResponse struct {
	ID int64 `json:"id" example:"4"`
}

type OrderLine struct {
	ProductID int64 `json:"product_id" example:"1"`
	Quantity  int   `json:"quantity" example:"2"`
}

type PlaceOrderRequest struct {
	Items []OrderLine `json:"items"`
}

type PlaceOrderResponse struct {
	OrderID int64 `json:"order_id" example:"1"`
}

type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string"`
}

type Order struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	CreatedAt time.Time       `json:"created_at"`
	Total     decimal.Decimal `json:"total" swaggertype:"string"`
	Items     []OrderItem     `json:"items"`
}

// ============================================================================
// Health
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Uptime  string `json:"uptime,omitempty" example:"1h23m45s"`
	Version string `json:"version,omitempty"`

	// Checks maps a dependency name to "ok" or its error (only for /readyz).
	Checks map[string]string `json:"checks,omitempty"`
}
