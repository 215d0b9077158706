package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/domain"
	"github.com/aussiebroadwan/shopgate/internal/pkce/resource/service"
	"github.com/aussiebroadwan/shopgate/pkg/authsdk"
	"github.com/aussiebroadwan/shopgate/pkg/httpx"
	"github.com/aussiebroadwan/shopgate/pkg/slogx"
)

type ResourceHandler struct {
	ResourceService *service.ResourceService
}

// HandleRegisterToken handles POST /register-token
//
//	@Summary	Register an opaque token
//	@Tags		Resource
//	@Accept		json
//	@Produce	json
//	@Param		request	body		authsdk.RegisterTokenRequest	true	"access_token"
//	@Success	200		{object}	authsdk.RegisterTokenResponse	"message"
//	@Failure	400		{object}	authsdk.ErrorResponse			"missing_access_token"
//	@Router		/register-token [post].
func (h *ResourceHandler) HandleRegisterToken(w http.ResponseWriter, r *http.Request) {
	// An unreadable body is treated as a missing token so it is logged.
	req, err := httpx.Bind[authsdk.RegisterTokenRequest](r)
	if err != nil {
		slogx.FromContext(r.Context()).Info("register-token body rejected", "error", err)
	}

	if err := h.ResourceService.RegisterToken(r.Context(), req.AccessToken); err != nil {
		authsdk.ErrMissingAccessToken.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.RegisterTokenResponse{Message: "token registered"})
}

// HandleProfile handles GET /profile
//
//	@Summary	Demo profile
//	@Tags		Resource
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	authsdk.Profile			"username, email, role, status"
//	@Failure	401	{object}	authsdk.ErrorResponse	"missing_token or invalid_format"
//	@Failure	403	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Router		/profile [get].
func (h *ResourceHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p := h.ResourceService.Profile
	httpx.WriteJSON(w, http.StatusOK, authsdk.Profile{
		Username: p.Username,
		Email:    p.Email,
		Role:     p.Role,
		Status:   p.Status,
	})
}

// HandleSecurityLog handles GET /security-log
//
//	@Summary	Security events in append order
//	@Tags		Resource
//	@Produce	json
//	@Success	200	{array}	authsdk.SecurityEvent	"events"
//	@Router		/security-log [get].
func (h *ResourceHandler) HandleSecurityLog(w http.ResponseWriter, r *http.Request) {
	events := h.ResourceService.Events()

	out := make([]authsdk.SecurityEvent, 0, len(events))
	for _, e := range events {
		out = append(out, authsdk.SecurityEvent{Timestamp: e.Timestamp, Event: e.Event, Details: e.Details})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleListProducts handles GET /products
//
//	@Summary	List products
//	@Tags		Resource
//	@Produce	json
//	@Success	200	{array}	authsdk.Product	"products"
//	@Router		/products [get].
func (h *ResourceHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.ResourceService.Products(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list products", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]authsdk.Product, 0, len(products))
	for _, p := range products {
		out = append(out, authsdk.Product{ID: p.ID, Name: p.Name, Price: p.Price, Description: p.Description})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreateProduct handles POST /products
//
//	@Summary	Create a product
//	@Tags		Resource
//	@Accept		json
//	@Produce	json
//	@Param		request	body		authsdk.CreateProductRequest	true	"name, price, description"
//	@Success	201		{object}	authsdk.CreateProductResponse	"id"
//	@Failure	400		{object}	authsdk.ErrorResponse			"name_and_price_required"
//	@Router		/products [post].
func (h *ResourceHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httpx.BindAndValidate[authsdk.CreateProductRequest](w, r, authsdk.ErrorCodeNameAndPriceRequired)
	if !ok {
		return
	}

	id, err := h.ResourceService.CreateProduct(ctx, req.Name, req.Price, req.Description)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNameAndPriceRequired):
		authsdk.ErrNameAndPriceRequired.WriteError(w)
		return
	default:
		slogx.FromContext(ctx).Error("failed to create product", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.CreateProductResponse{ID: id})
}

// HandlePlaceOrder handles POST /orders
//
//	@Summary		Place an order
//	@Description	Lines naming unknown products are skipped. The order belongs to the profile user.
//	@Tags			Resource
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		authsdk.PlaceOrderRequest	true	"items"
//	@Success		201		{object}	authsdk.PlaceOrderResponse	"order_id"
//	@Failure		400		{object}	authsdk.ErrorResponse		"no_items"
//	@Failure		401		{object}	authsdk.ErrorResponse		"missing_token or invalid_format"
//	@Failure		403		{object}	authsdk.ErrorResponse		"invalid_token"
//	@Router			/orders [post].
func (h *ResourceHandler) HandlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httpx.BindAndValidate[authsdk.PlaceOrderRequest](w, r, authsdk.ErrorCodeNoItems)
	if !ok {
		return
	}

	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, domain.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.ResourceService.PlaceOrder(ctx, lines)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNoItems):
		authsdk.ErrNoItems.WriteError(w)
		return
	default:
		slogx.FromContext(ctx).Error("failed to place order", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.PlaceOrderResponse{OrderID: order.ID})
}

// HandleListOrders handles GET /orders
//
//	@Summary	Order history, newest first
//	@Tags		Resource
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		authsdk.Order			"orders"
//	@Failure	401	{object}	authsdk.ErrorResponse	"missing_token or invalid_format"
//	@Failure	403	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Router		/orders [get].
func (h *ResourceHandler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.ResourceService.Orders(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list orders", "error", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]authsdk.Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrder(o))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func toOrder(o domain.Order) authsdk.Order {
	items := make([]authsdk.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, authsdk.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return authsdk.Order{
		ID:        o.ID,
		Username:  o.Username,
		CreatedAt: o.CreatedAt,
		Total:     o.Total(),
		Items:     items,
	}
}
