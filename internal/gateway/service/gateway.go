package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aussiebroadwan/shopgate/internal/gateway/domain"
	"github.com/aussiebroadwan/shopgate/internal/gateway/store"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/cryptox"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

var (
	ErrInvalidRequest      = errors.New("invalid_request")
	ErrInvalidCredentials  = errors.New("invalid_credentials")
	ErrUserExists          = errors.New("user_exists")
	ErrLoginRequired       = errors.New("login_required")
	ErrUpstreamUnavailable = errors.New("upstream_unavailable")
	ErrArticleNotFound     = errors.New("article_not_found")
	ErrRateLimited         = errors.New("rate_limit_exceeded")
)

// Issuer logs users in at the token issuer.
type Issuer interface {
	Login(ctx context.Context, username, password string) (*authsdk.LoginResponse, error)
}

// Registrar creates users in the credential store.
type Registrar interface {
	RegisterUser(ctx context.Context, username, password string) (*authsdk.RegisterUserResponse, error)
}

// Orders is the orders service; every call carries the session token.
type Orders interface {
	ListArticles(ctx context.Context, token string) ([]authsdk.Article, error)
	ListPurchases(ctx context.Context, token, username string) ([]string, error)
	Buy(ctx context.Context, token, username string, articleID int) (*authsdk.BuyResponse, error)
}

type GatewayService struct {
	Sessions store.Sessions
	Issuer   Issuer
	Verifier httpx.TokenVerifier
	Users    Registrar
	Orders   Orders
	Now      func() time.Time
}

// Home is what a logged-in browser sees.
type Home struct {
	Username  string
	Articles  []authsdk.Article
	Purchases []string
}

func (s *GatewayService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login exchanges credentials for a token and stores it in a new session.
func (s *GatewayService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	resp, err := s.Issuer.Login(ctx, username, password)
	switch {
	case err == nil:
	case authsdk.IsUnavailable(err):
		return domain.Session{}, ErrUpstreamUnavailable
	case authsdk.StatusOf(err) == http.StatusTooManyRequests:
		return domain.Session{}, ErrRateLimited
	case authsdk.StatusOf(err) == http.StatusBadRequest:
		return domain.Session{}, ErrInvalidRequest
	case authsdk.StatusOf(err) == http.StatusUnauthorized:
		return domain.Session{}, ErrInvalidCredentials
	default:
		return domain.Session{}, fmt.Errorf("login: %w", err)
	}

	sess := domain.Session{
		ID:        cryptox.MustGenerateToken(cryptox.TokenSize256),
		Token:     resp.AccessToken,
		Username:  resp.Username,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

// Logout deletes the session. Unknown ids are fine.
func (s *GatewayService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// Register creates a user in the credential store.
func (s *GatewayService) Register(ctx context.Context, username, password string) (string, error) {
	resp, err := s.Users.RegisterUser(ctx, username, password)
	switch {
	case err == nil:
		return resp.Username, nil
	case authsdk.IsUnavailable(err):
		return "", ErrUpstreamUnavailable
	case authsdk.StatusOf(err) == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case authsdk.HasCode(err, authsdk.ErrorCodeUserExists):
		return "", ErrUserExists
	case authsdk.StatusOf(err) == http.StatusBadRequest:
		return "", ErrInvalidRequest
	default:
		return "", fmt.Errorf("register: %w", err)
	}
}

// Resolve returns the session for sessionID after re-verifying its token
// with the issuer. A missing session or a rejected token is
// ErrLoginRequired, and the session is deleted so the browser starts over.
// An unreachable issuer is ErrUpstreamUnavailable and the session is kept.
func (s *GatewayService) Resolve(ctx context.Context, sessionID string) (domain.Session, error) {
	log := slogx.FromContext(ctx)

	if sessionID == "" {
		return domain.Session{}, ErrLoginRequired
	}
	sess, err := s.Sessions.Get(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrLoginRequired
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}

	username, err := s.Verifier.VerifyToken(ctx, sess.Token)
	if authsdk.IsUnavailable(err) {
		log.Warn("token issuer unreachable", "username", sess.Username, "error", err)
		return domain.Session{}, ErrUpstreamUnavailable
	}
	if err != nil || username != sess.Username {
		log.Info("session token rejected", "username", sess.Username, "error", err)
		if derr := s.Sessions.Delete(ctx, sessionID); derr != nil {
			log.Warn("failed to delete session", "error", derr)
		}
		return domain.Session{}, ErrLoginRequired
	}
	return sess, nil
}

// Home loads the articles and the user's purchases from the orders service.
func (s *GatewayService) Home(ctx context.Context, sess domain.Session) (Home, error) {
	articles, err := s.Orders.ListArticles(ctx, sess.Token)
	if err != nil {
		return Home{}, ordersError(err)
	}
	purchases, err := s.Orders.ListPurchases(ctx, sess.Token, sess.Username)
	if err != nil {
		return Home{}, ordersError(err)
	}
	return Home{Username: sess.Username, Articles: articles, Purchases: purchases}, nil
}

// Buy forwards a purchase to the orders service.
func (s *GatewayService) Buy(ctx context.Context, sess domain.Session, articleID int) (*authsdk.BuyResponse, error) {
	resp, err := s.Orders.Buy(ctx, sess.Token, sess.Username, articleID)
	if err != nil {
		return nil, ordersError(err)
	}
	return resp, nil
}

// ordersError maps an orders service failure. A 401 there means the token
// expired between Resolve and the call.
func ordersError(err error) error {
	switch {
	case authsdk.IsUnavailable(err):
		return ErrUpstreamUnavailable
	case authsdk.StatusOf(err) == http.StatusTooManyRequests:
		return ErrRateLimited
	case authsdk.StatusOf(err) == http.StatusUnauthorized, authsdk.StatusOf(err) == http.StatusForbidden:
		return ErrLoginRequired
	case authsdk.StatusOf(err) == http.StatusNotFound:
		return ErrArticleNotFound
	case authsdk.StatusOf(err) == http.StatusBadRequest:
		return ErrInvalidRequest
	default:
		return fmt.Errorf("orders: %w", err)
	}
}
