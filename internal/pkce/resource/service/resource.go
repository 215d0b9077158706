// Package service implements the resource role: a guard that accepts only
// registered opaque tokens, the demo profile, and a small product and order
// catalog.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/domain"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/security"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/store"
	"github.com/aussiebroadwan/shopgate/pkg/cryptox"
)

var (
	ErrMissingAccessToken   = errors.New("missing_access_token")
	ErrMissingToken         = errors.New("missing_token")
	ErrInvalidFormat        = errors.New("invalid_format")
	ErrInvalidToken         = errors.New("invalid_token")
	ErrNameAndPriceRequired = errors.New("name_and_price_required")
	ErrNoItems              = errors.New("no_items")
)

const bearerPrefix = "Bearer "

// DefaultProfile is the profile served to every registered token.
func DefaultProfile() domain.Profile {
	return domain.Profile{
		Username: "victor",
		Email:    "victor@example.com",
		Role:     "student",
		Status:   "Authenticated with PKCE demo",
	}
}

// DefaultProducts seeds an empty catalog.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{Name: "Go in Action", Price: decimal.RequireFromString("29.90"), Description: "Learn Go step by step"},
		{Name: "Mechanical keyboard", Price: decimal.RequireFromString("89.00"), Description: "A keyboard for developers"},
		{Name: "27 inch monitor", Price: decimal.RequireFromString("249.99"), Description: "IPS 144Hz monitor"},
	}
}

type ResourceService struct {
	Tokens  store.Tokens
	Log     store.SecurityLog
	Store   store.Store
	Profile domain.Profile
	Now     func() time.Time
}

func NewResourceService(st store.Store, tokens store.Tokens, log store.SecurityLog, profile domain.Profile) *ResourceService {
	return &ResourceService{
		Tokens:  tokens,
		Log:     log,
		Store:   st,
		Profile: profile,
		Now:     time.Now,
	}
}

// RegisterToken adds token to the valid set. Registering a token twice is
// harmless.
func (s *ResourceService) RegisterToken(ctx context.Context, token string) error {
	if token == "" {
		s.Log.Append(ctx, security.EventRegisterTokenMissing, nil)
		return ErrMissingAccessToken
	}

	s.Tokens.Add(token)
	s.Log.Append(ctx, security.EventRegisterTokenOK, map[string]any{
		"token": cryptox.FingerprintToken(token),
	})
	return nil
}

// Guard checks an Authorization header value for route and logs the
// decision. Tokens are logged by fingerprint only.
func (s *ResourceService) Guard(ctx context.Context, route, header string) (string, error) {
	details := map[string]any{"route": route}

	if header == "" {
		s.Log.Append(ctx, security.EventMissingToken, details)
		return "", ErrMissingToken
	}

	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok {
		scheme, _, _ := strings.Cut(header, " ")
		details["scheme"] = scheme
		s.Log.Append(ctx, security.EventInvalidFormat, details)
		return "", ErrInvalidFormat
	}

	details["token"] = cryptox.FingerprintToken(token)
	if !s.Tokens.Contains(token) {
		s.Log.Append(ctx, security.EventInvalidToken, details)
		return "", ErrInvalidToken
	}

	s.Log.Append(ctx, security.EventTokenOK, details)
	return token, nil
}

// Events returns the security log in append order.
func (s *ResourceService) Events() []domain.SecurityEvent {
	return s.Log.Events()
}

// SeedProducts fills an empty catalog with DefaultProducts.
func (s *ResourceService) SeedProducts(ctx context.Context) (int, error) {
	return s.Store.Products().SeedProducts(ctx, DefaultProducts())
}

func (s *ResourceService) Products(ctx context.Context) ([]domain.Product, error) {
	products, err := s.Store.Products().ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// CreateProduct adds a product. price must be present; zero is allowed.
func (s *ResourceService) CreateProduct(ctx context.Context, name string, price *decimal.Decimal, description string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" || price == nil || price.IsNegative() {
		return 0, ErrNameAndPriceRequired
	}

	id, err := s.Store.Products().CreateProduct(ctx, domain.Product{
		Name:        name,
		Price:       *price,
		Description: description,
	})
	if err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}

	s.Log.Append(ctx, security.EventProductCreated, map[string]any{"product_id": id, "name": name})
	return id, nil
}

// PlaceOrder records an order for the profile user. A line with no quantity
// counts as one; lines for unknown products are dropped.
func (s *ResourceService) PlaceOrder(ctx context.Context, lines []domain.OrderLine) (domain.Order, error) {
	normalized := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity == 0 {
			l.Quantity = 1
		}
		normalized = append(normalized, l)
	}
	if len(normalized) == 0 {
		return domain.Order{}, ErrNoItems
	}

	order, err := s.Store.Orders().PlaceOrder(ctx, s.Profile.Username, normalized, s.Now())
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNoItems):
		return domain.Order{}, ErrNoItems
	default:
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}

	s.Log.Append(ctx, security.EventOrderCreated, map[string]any{
		"order_id": order.ID,
		"username": order.Username,
	})
	return order, nil
}

// Orders returns the profile user's orders, newest first.
func (s *ResourceService) Orders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.Store.Orders().ListOrders(ctx, s.Profile.Username)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
