package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopgate/internal/orders/domain"
	"github.com/aussiebroadwan/shopgate/internal/orders/service"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

type OrdersHandler struct {
	OrderService *service.OrderService
}

// HandleArticles handles GET /orders/articles
//
//	@Summary	List articles
//	@Tags		Orders
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	authsdk.ArticlesResponse	"articles"
//	@Failure	401	{object}	authsdk.ErrorResponse		"invalid_token"
//	@Router		/orders/articles [get].
func (h *OrdersHandler) HandleArticles(w http.ResponseWriter, r *http.Request) {
	articles := h.OrderService.Articles()

	out := authsdk.ArticlesResponse{Articles: make([]authsdk.Article, 0, len(articles))}
	for _, a := range articles {
		out.Articles = append(out.Articles, toArticle(a))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandlePurchases handles GET /orders/{username}/purchases
//
//	@Summary	List purchases
//	@Tags		Orders
//	@Produce	json
//	@Security	BearerAuth
//	@Param		username	path		string						true	"username"
//	@Success	200			{object}	authsdk.PurchasesResponse	"user, purchases"
//	@Failure	401			{object}	authsdk.ErrorResponse		"invalid_token"
//	@Failure	403			{object}	authsdk.ErrorResponse		"forbidden"
//	@Router		/orders/{username}/purchases [get].
func (h *OrdersHandler) HandlePurchases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username, _ := httpx.UsernameFromContext(ctx)

	purchases, err := h.OrderService.Purchases(ctx, username)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list purchases", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.PurchasesResponse{User: username, Purchases: purchases})
}

// HandleBuy handles POST /orders/{username}/buy
//
//	@Summary	Buy an article
//	@Tags		Orders
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		username	path		string					true	"username"
//	@Param		request		body		authsdk.BuyRequest		true	"article_id"
//	@Success	201			{object}	authsdk.BuyResponse		"message, article, user"
//	@Failure	400			{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure	401			{object}	authsdk.ErrorResponse	"invalid_token"
//	@Failure	403			{object}	authsdk.ErrorResponse	"forbidden"
//	@Failure	404			{object}	authsdk.ErrorResponse	"not_found"
//	@Router		/orders/{username}/buy [post].
func (h *OrdersHandler) HandleBuy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	username, _ := httpx.UsernameFromContext(ctx)

	req, ok := httpx.BindAndValidate[authsdk.BuyRequest](w, r, authsdk.ErrorCodeInvalidRequest)
	if !ok {
		return
	}

	article, err := h.OrderService.Buy(ctx, username, *req.ArticleID)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrArticleNotFound):
		authsdk.ErrArticleNotFound.WriteError(w)
		return
	default:
		log.Error("failed to record purchase", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	log.Info("purchase recorded", "username", username, "article", article.Name)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.BuyResponse{
		Message: "purchase recorded",
		Article: toArticle(article),
		User:    username,
	})
}

func toArticle(a domain.Article) authsdk.Article {
	return authsdk.Article{ID: a.ID, Name: a.Name}
}
