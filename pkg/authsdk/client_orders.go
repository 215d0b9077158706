package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Orders service calls. Each takes the caller's bearer token, which the
// orders service re-verifies with the issuer.

// ListArticles returns the catalog.
func (c *SDKClient) ListArticles(ctx context.Context, token string) ([]Article, error) {
	var out ArticlesResponse
	if err := c.call(ctx, http.MethodGet, "/orders/articles", token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Articles, nil
}

// ListPurchases returns the article names username has bought.
func (c *SDKClient) ListPurchases(ctx context.Context, token, username string) ([]string, error) {
	var out PurchasesResponse
	path := "/orders/" + url.PathEscape(username) + "/purchases"
	if err := c.call(ctx, http.MethodGet, path, token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	if out.Purchases == nil {
		out.Purchases = []string{}
	}
	return out.Purchases, nil
}

// Buy records a purchase of articleID for username.
func (c *SDKClient) Buy(ctx context.Context, token, username string, articleID int) (*BuyResponse, error) {
	var out BuyResponse
	path := "/orders/" + url.PathEscape(username) + "/buy"
	if err := c.call(ctx, http.MethodPost, path, token,
		BuyRequest{ArticleID: &articleID}, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
