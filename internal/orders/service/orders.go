package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shopgate/internal/orders/domain"
	"github.com/aussiebroadwan/shopgate/internal/orders/store"
	"github.com/aussiebroadwan/shopgate/pkg/idx"
)

var ErrArticleNotFound = errors.New("article_not_found")

// DefaultCatalog is the fixed article list: ids 1..3.
func DefaultCatalog() []domain.Article {
	return []domain.Article{
		{ID: 1, Name: "Article 1"},
		{ID: 2, Name: "Article 2"},
		{ID: 3, Name: "Article 3"},
	}
}

type OrderService struct {
	Store   store.Store
	Catalog []domain.Article
	Now     func() time.Time
}

func NewOrderService(st store.Store) *OrderService {
	return &OrderService{Store: st, Catalog: DefaultCatalog(), Now: time.Now}
}

// Articles returns the catalog.
func (s *OrderService) Articles() []domain.Article {
	return s.Catalog
}

// Purchases returns the names of the articles username bought, oldest first.
func (s *OrderService) Purchases(ctx context.Context, username string) ([]string, error) {
	ps, err := s.Store.Purchases().ListPurchases(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.ArticleName)
	}
	return names, nil
}

// Buy records a purchase of the article with the given id.
func (s *OrderService) Buy(ctx context.Context, username string, articleID int) (domain.Article, error) {
	article, ok := s.article(articleID)
	if !ok {
		return domain.Article{}, ErrArticleNotFound
	}

	now := s.Now()
	err := s.Store.Purchases().AddPurchase(ctx, domain.Purchase{
		ID:          idx.NewAt(now).String(),
		Username:    username,
		ArticleName: article.Name,
		CreatedAt:   now,
	})
	if err != nil {
		return domain.Article{}, fmt.Errorf("add purchase: %w", err)
	}
	return article, nil
}

func (s *OrderService) article(id int) (domain.Article, bool) {
	for _, a := range s.Catalog {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Article{}, false
}
