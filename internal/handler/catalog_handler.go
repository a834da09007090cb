package handler

import (
	"errors"
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

// CatalogHandler handles menu browsing HTTP requests
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// productView adds derived fields to a product
type productView struct {
	domain.Product
	InStock bool `json:"in_stock"`
}

func newProductViews(products []domain.Product) []productView {
	views := make([]productView, len(products))
	for i := range products {
		views[i] = productView{Product: products[i], InStock: products[i].InStock()}
	}
	return views
}

// Home handles GET /
func (h *CatalogHandler) Home(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.catalog.home")
	defer span.End()

	categories, err := h.catalogService.Categories(ctx)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	products, err := h.catalogService.Featured(ctx)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, gin.H{
		"categories": categories,
		"products":   newProductViews(products),
	})
}

// ListProducts handles GET /products?page=&search=&category_id=
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.catalog.products")
	defer span.End()

	filter := service.ProductFilter{Search: strings.TrimSpace(c.Query("search"))}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			span.SetStatus(codes.Error, "invalid category id")
			response.BadRequest(c, "Invalid category")
			return
		}
		filter.CategoryID = id
	}
	page := pageQuery(c)
	span.SetAttributes(attribute.Int("page", page))

	view, err := h.catalogService.Browse(ctx, filter, page)
	if errors.Is(err, query.ErrSuperseded) {
		// A newer listing request took over; show what is on screen
		response.Paginated(c, newProductViews(pageData(view.Data)), newPageMeta(view.Page, view.Data, true, view.Placeholder))
		return
	}
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Paginated(c, newProductViews(pageData(view.Data)), newPageMeta(view.Page, view.Data, view.Loading, view.Placeholder))
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.catalog.product")
	defer span.End()

	id, err := intParam(c, "id")
	if err != nil {
		fail(c, span, err, "")
		return
	}
	span.SetAttributes(attribute.Int("product_id", id))

	product, err := h.catalogService.Product(ctx, id)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, productView{Product: *product, InStock: product.InStock()})
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.catalog.categories")
	defer span.End()

	categories, err := h.catalogService.Categories(ctx)
	if err != nil {
		fail(c, span, err, "")
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	response.Success(c, categories)
}

// GetCategory handles GET /categories/:id
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.catalog.category")
	defer span.End()

	id, err := intParam(c, "id")
	if err != nil {
		fail(c, span, err, "")
		return
	}

	category, err := h.catalogService.Category(ctx, id)
	if err != nil {
		fail(c, span, err, "")
		return
	}

	response.Success(c, gin.H{
		"category": category,
		"products": newProductViews(category.Products),
	})
}
