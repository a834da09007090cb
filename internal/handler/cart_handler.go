package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/prohmpiriya/canteen-storefront/internal/service"
	"github.com/prohmpiriya/canteen-storefront/pkg/response"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
)

const cartFailurePrefix = "Failed to update cart: "

// CartHandler handles cart HTTP requests
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// addItemRequest is the body of POST /cart/items
type addItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// cartLineView adds derived fields to a cart line
type cartLineView struct {
	ID        int    `json:"id"`
	ProductID int    `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
	Pending   bool   `json:"pending"`
}

type cartView struct {
	Items    []cartLineView `json:"items"`
	Count    int            `json:"count"`
	Subtotal int64          `json:"subtotal"`
}

func (h *CartHandler) newCartView(summary *service.CartSummary) cartView {
	view := cartView{Items: make([]cartLineView, 0, len(summary.Items)), Count: summary.Count, Subtotal: summary.Subtotal}
	for i := range summary.Items {
		item := &summary.Items[i]
		view.Items = append(view.Items, cartLineView{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
			Pending:   h.cartService.Pending(item.ID),
		})
	}
	return view
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.cart.get")
	defer span.End()

	summary, err := h.cartService.Summary(ctx)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetAttributes(attribute.Int("items", len(summary.Items)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, h.newCartView(summary))
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.cart.add")
	defer span.End()

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, "Invalid cart request")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.cartService.Add(ctx, req.ProductID, req.Quantity)
	if err != nil {
		fail(c, span, err, cartFailurePrefix)
		return
	}

	name := item.Product.Name
	if name == "" {
		name = "Item"
	}
	span.SetStatus(codes.Ok, "")
	response.Created(c, item, fmt.Sprintf("%s added to cart!", name))
}

// IncreaseItem handles POST /cart/items/:id/increase
func (h *CartHandler) IncreaseItem(c *gin.Context) {
	h.mutate(c, "handler.cart.increase", h.cartService.Increase, "")
}

// DecreaseItem handles POST /cart/items/:id/decrease
func (h *CartHandler) DecreaseItem(c *gin.Context) {
	h.mutate(c, "handler.cart.decrease", h.cartService.Decrease, "")
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.mutate(c, "handler.cart.remove", h.cartService.Remove, "Item removed from cart")
}

func (h *CartHandler) mutate(c *gin.Context, spanName string, fn func(ctx context.Context, itemID int) error, notice string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), spanName)
	defer span.End()

	id, err := intParam(c, "id")
	if err != nil {
		fail(c, span, err, cartFailurePrefix)
		return
	}
	span.SetAttributes(attribute.Int("item_id", id))

	if err := fn(ctx, id); err != nil {
		fail(c, span, err, cartFailurePrefix)
		return
	}

	// The refreshed cart is a courtesy; the mutation itself succeeded
	var data interface{}
	if summary, err := h.cartService.Summary(ctx); err == nil {
		data = h.newCartView(summary)
	}

	span.SetStatus(codes.Ok, "")
	if notice != "" {
		response.SuccessWithNotice(c, data, notice)
		return
	}
	response.Success(c, data)
}
