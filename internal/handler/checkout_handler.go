package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/service"
	"github.com/prohmpiriya/canteen-storefront/pkg/response"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
)

// CheckoutHandler handles checkout HTTP requests
type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

type placeOrderRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type placeOrderView struct {
	Order    *domain.Order `json:"order"`
	Redirect string        `json:"redirect"`
}

// Summary handles GET /checkout. An empty cart sends the shopper back to /cart.
func (h *CheckoutHandler) Summary(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.checkout.summary")
	defer span.End()

	summary, err := h.checkoutService.Summary(ctx)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	if summary.IsEmpty() {
		span.SetAttributes(attribute.Bool("empty_cart", true))
		response.RedirectWithNotice(c, "/cart", response.LevelInfo, "Your cart is empty. Redirecting...")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, summary)
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.checkout.place_order")
	defer span.End()

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, "Invalid checkout request")
		return
	}

	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		fail(c, span, err, "Checkout failed: ")
		return
	}

	// The order covers exactly the cart the shopper reviewed
	summary, err := h.checkoutService.Summary(ctx)
	if err != nil {
		fail(c, span, err, "Checkout failed: ")
		return
	}

	order, err := h.checkoutService.PlaceOrder(ctx, summary.Items, method)
	if err != nil {
		fail(c, span, err, "Checkout failed: ")
		return
	}

	span.SetAttributes(attribute.String("order_id", order.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, placeOrderView{Order: order, Redirect: "/order-success/" + order.ID}, "Order placed successfully!")
}
