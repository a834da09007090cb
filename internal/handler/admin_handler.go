package handler

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/internal/service"
	"github.com/prohmpiriya/canteen-storefront/pkg/response"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
)

// maxImageSize bounds product image uploads
const maxImageSize = 2 << 20

var errImageTooLarge = errors.New("the image may not be greater than 2048 kilobytes")

// AdminHandler handles canteen administration HTTP requests
type AdminHandler struct {
	adminService   service.AdminService
	catalogService service.CatalogService
	orderService   service.OrderService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService service.AdminService, catalogService service.CatalogService, orderService service.OrderService) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		catalogService: catalogService,
		orderService:   orderService,
	}
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.dashboard")
	defer span.End()

	categories, err := h.catalogService.Categories(ctx)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	orders, err := h.orderService.History(ctx, 1)
	if err != nil && !errors.Is(err, query.ErrSuperseded) {
		fail(c, span, err, "")
		return
	}

	totalOrders := 0
	if orders.Data != nil {
		totalOrders = orders.Data.Meta.Total
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{
		"categories":    len(categories),
		"total_orders":  totalOrders,
		"recent_orders": pageData(orders.Data),
	})
}

// CreateCategory handles POST /admin/categories
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.create_category")
	defer span.End()

	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, "Invalid category request")
		return
	}

	category, err := h.adminService.CreateCategory(ctx, &req)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Created(c, category, "Category created successfully!")
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.update_category")
	defer span.End()

	id, err := intParam(c, "id")
	if err != nil {
		fail(c, span, err, "")
		return
	}

	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, "Invalid category request")
		return
	}

	category, err := h.adminService.UpdateCategory(ctx, id, &req)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.SuccessWithNotice(c, category, "Category updated successfully!")
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	h.deleteByInt(c, "handler.admin.delete_category", h.adminService.DeleteCategory, "Category deleted successfully!")
}

// CreateProduct handles POST /admin/products (multipart)
func (h *AdminHandler) CreateProduct(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.create_product")
	defer span.End()

	form, err := bindProductForm(c)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	product, err := h.adminService.CreateProduct(ctx, form)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetAttributes(attribute.Int("product_id", product.ID))
	span.SetStatus(codes.Ok, "")
	response.Created(c, product, "Product created successfully!")
}

// UpdateProduct handles PUT /admin/products/:id (multipart)
func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.update_product")
	defer span.End()

	id, err := intParam(c, "id")
	if err != nil {
		fail(c, span, err, "")
		return
	}

	form, err := bindProductForm(c)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	product, err := h.adminService.UpdateProduct(ctx, id, form)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.SuccessWithNotice(c, product, "Product updated successfully!")
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	h.deleteByInt(c, "handler.admin.delete_product", h.adminService.DeleteProduct, "Product deleted successfully!")
}

// ForceDeleteProduct handles DELETE /admin/products/:id/force
func (h *AdminHandler) ForceDeleteProduct(c *gin.Context) {
	h.deleteByInt(c, "handler.admin.force_delete_product", h.adminService.ForceDeleteProduct, "Product permanently deleted!")
}

type updateOrderStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// UpdateOrderStatus handles PATCH /admin/orders/:id
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.update_order_status")
	defer span.End()

	id := strings.TrimSpace(c.Param("id"))
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || id == "" {
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, "Invalid order status request")
		return
	}

	order, err := h.adminService.UpdateOrderStatus(ctx, id, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.SuccessWithNotice(c, order, "Order status updated successfully!")
}

// DeleteOrder handles DELETE /admin/orders/:id
func (h *AdminHandler) DeleteOrder(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.admin.delete_order")
	defer span.End()

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		fail(c, span, errInvalidID, "")
		return
	}

	if err := h.adminService.DeleteOrder(ctx, id); err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.SuccessWithNotice(c, nil, "Order deleted successfully!")
}

func (h *AdminHandler) deleteByInt(c *gin.Context, spanName string, fn func(ctx context.Context, id int) error, notice string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), spanName)
	defer span.End()

	id, err := intParam(c, "id")
	if err != nil {
		fail(c, span, err, "")
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	if err := fn(ctx, id); err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.SuccessWithNotice(c, nil, notice)
}

// bindProductForm reads the product fields and optional image of a form post
func bindProductForm(c *gin.Context) (*domain.ProductForm, error) {
	form := &domain.ProductForm{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
	}

	if raw := strings.TrimSpace(c.PostForm("category_id")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return nil, errInvalidID
		}
		form.CategoryID = &id
	}

	price, err := strconv.ParseInt(strings.TrimSpace(c.DefaultPostForm("price", "0")), 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidPrice
	}
	form.Price = price

	stock, err := strconv.Atoi(strings.TrimSpace(c.DefaultPostForm("stock", "0")))
	if err != nil {
		return nil, domain.ErrInvalidQuantity
	}
	form.Stock = stock

	header, err := c.FormFile("image")
	if err != nil {
		// The image is optional
		return form, nil
	}
	if header.Size > maxImageSize {
		return nil, errImageTooLarge
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > maxImageSize {
		return nil, errImageTooLarge
	}
	form.Image = &domain.Upload{Filename: header.Filename, Content: content}
	return form, nil
}
