package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/shopgate/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeInvalidCredentials  = "invalid_credentials"
	ErrorCodeInvalidToken        = "invalid_token"
	ErrorCodeForbidden           = "forbidden"
	ErrorCodeNotFound            = "not_found"
	ErrorCodeUserExists          = "user_exists"
	ErrorCodeLoginRequired       = "login_required"
	ErrorCodeUpstreamUnavailable = "upstream_unavailable"
	ErrorCodeServerError         = "server_error"
	ErrorCodeRateLimitExceeded   = "rate_limit_exceeded"

	// Proof-of-possession exchange
	ErrorCodeMissingCodeChallenge     = "missing_code_challenge"
	ErrorCodeMissingParameters        = "missing_parameters"
	ErrorCodeInvalidAuthorizationCode = "invalid_authorization_code"
	ErrorCodeInvalidCodeVerifier      = "invalid_code_verifier"
	ErrorCodeMissingToken             = "missing_token"
	ErrorCodeInvalidFormat            = "invalid_format"
	ErrorCodeMissingAccessToken       = "missing_access_token"
	ErrorCodeNameAndPriceRequired     = "name_and_price_required"
	ErrorCodeNoItems                  = "no_items"
)

// ============================================================================
// Error - wire error type shared by every service
// ============================================================================

// Error is the {"error","error_description"} body every service returns. The
// same type is written by handlers and returned by the client, so callers can
// compare a remote failure against the predefined values with errors.Is.
type Error struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine readable error code (e.g., "invalid_token")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is reports whether target is an *Error with the same status, code and
// description. Use HasCode to match on the code alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code && e.Description == t.Description
}

// WriteError writes this error to an HTTP response writer.
func (e *Error) WriteError(w http.ResponseWriter) {
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

// NewError creates a new Error with the given status code, error code, and description.
func NewError(statusCode int, code, description string) *Error {
	return &Error{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// HasCode reports whether err carries an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// StatusOf returns the HTTP status of an *Error in err's chain, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// IsUnavailable reports whether err means the remote service could not
// answer: a network failure or a 502/503/504 response.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	switch StatusOf(err) {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ErrUnavailable wraps every transport failure returned by SDKClient.
var ErrUnavailable = errors.New("authsdk: service unavailable")

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	ErrInvalidRequest = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials is deliberately the same for an unknown user and
	// a wrong password.
	ErrInvalidCredentials = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "incorrect username or password",
	}

	ErrTokenInvalid = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "token invalid",
	}

	ErrTokenExpired = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "token expired",
	}

	ErrForbidden = &Error{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "access denied",
	}

	ErrNotFound = &Error{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "resource not found",
	}

	ErrArticleNotFound = &Error{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "article not found",
	}

	ErrUserExists = &Error{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUserExists,
		Description: "username already exists",
	}

	// ErrLoginRequired is what the gateway returns once a browser has no
	// usable session.
	ErrLoginRequired = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeLoginRequired,
		Description: "please log in again",
	}

	ErrUpstreamUnavailable = &Error{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUpstreamUnavailable,
		Description: "upstream service unavailable",
	}

	ErrRateLimited = &Error{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimitExceeded,
		Description: "too many requests, please try again later",
	}

	ErrServerError = &Error{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	ErrMissingCodeChallenge = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMissingCodeChallenge,
		Description: "code_challenge is required",
	}

	ErrMissingParameters = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMissingParameters,
		Description: "authorization_code and code_verifier are required",
	}

	ErrInvalidAuthorizationCode = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidAuthorizationCode,
		Description: "authorization code is unknown or already used",
	}

	ErrInvalidCodeVerifier = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidCodeVerifier,
		Description: "code_verifier does not match the code challenge",
	}

	ErrMissingToken = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeMissingToken,
		Description: "authorization header missing",
	}

	ErrInvalidFormat = &Error{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidFormat,
		Description: "authorization header must be 'Bearer <token>'",
	}

	// ErrUnregisteredToken is the resource role's answer to an opaque token
	// it has never seen.
	ErrUnregisteredToken = &Error{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInvalidToken,
		Description: "token is not registered",
	}

	ErrMissingAccessToken = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMissingAccessToken,
		Description: "access_token is required",
	}

	ErrNameAndPriceRequired = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeNameAndPriceRequired,
		Description: "name and price are required",
	}

	ErrNoItems = &Error{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeNoItems,
		Description: "order must contain at least one known product",
	}
)

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse turns a non-success response into an *Error. Bodies
// that are not in the shared error shape still produce an *Error carrying
// the status code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &Error{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	code := ErrorCodeServerError
	if resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusBadGateway {
		code = ErrorCodeUpstreamUnavailable
	}
	return &Error{
		StatusCode:  resp.StatusCode,
		Code:        code,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
