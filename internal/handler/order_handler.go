package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/internal/service"
	"github.com/prohmpiriya/canteen-storefront/pkg/response"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
)

// OrderHandler handles order history HTTP requests
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListOrders handles GET /orders?page=
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.order.list")
	defer span.End()

	page := pageQuery(c)
	span.SetAttributes(attribute.Int("page", page))

	view, err := h.orderService.History(ctx, page)
	if errors.Is(err, query.ErrSuperseded) {
		response.Paginated(c, pageData(view.Data), newPageMeta(view.Page, view.Data, true, view.Placeholder))
		return
	}
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Paginated(c, pageData(view.Data), newPageMeta(view.Page, view.Data, view.Loading, view.Placeholder))
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	h.renderOrder(c, "handler.order.get", "")
}

// OrderSuccess handles GET /order-success/:id
func (h *OrderHandler) OrderSuccess(c *gin.Context) {
	h.renderOrder(c, "handler.order.success", "Thank you! Your order has been placed.")
}

func (h *OrderHandler) renderOrder(c *gin.Context, spanName, notice string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), spanName)
	defer span.End()

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, span, errInvalidID, "")
		return
	}
	span.SetAttributes(attribute.String("order_id", id))

	order, err := h.orderService.Order(ctx, id)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	if notice != "" {
		response.SuccessWithNotice(c, order, notice)
		return
	}
	response.Success(c, order)
}
