package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/guard"
)

// Handlers groups the storefront views
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Order    *OrderHandler
	Admin    *AdminHandler
}

// RouteConfig holds what the routes need besides the handlers
type RouteConfig struct {
	Session     guard.Snapshotter
	LandingPath string // denied admin views go here
	LoginPath   string // denied shopper views go here
	// CheckoutMiddleware runs before POST /checkout, e.g. idempotency
	CheckoutMiddleware []gin.HandlerFunc
}

// RegisterRoutes mounts every storefront view on r
func RegisterRoutes(r gin.IRouter, h *Handlers, cfg RouteConfig) {
	if cfg.LandingPath == "" {
		cfg.LandingPath = "/"
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	r.GET("/health", h.Health.Health)
	r.GET("/ready", h.Health.Ready)

	// Public
	r.GET("/", h.Catalog.Home)
	r.GET("/products", h.Catalog.ListProducts)
	r.GET("/products/:id", h.Catalog.GetProduct)
	r.GET("/categories", h.Catalog.ListCategories)
	r.GET("/categories/:id", h.Catalog.GetCategory)

	r.POST("/login", h.Auth.Login)
	r.POST("/register", h.Auth.Register)
	r.GET("/session", h.Auth.Session)

	// Signed-in shopper
	shopper := r.Group("")
	shopper.Use(guard.RequireLogin(cfg.Session, cfg.LoginPath))
	{
		shopper.POST("/logout", h.Auth.Logout)
		shopper.GET("/me", h.Auth.Me)

		shopper.GET("/cart", h.Cart.GetCart)
		shopper.POST("/cart/items", h.Cart.AddItem)
		shopper.POST("/cart/items/:id/increase", h.Cart.IncreaseItem)
		shopper.POST("/cart/items/:id/decrease", h.Cart.DecreaseItem)
		shopper.DELETE("/cart/items/:id", h.Cart.RemoveItem)

		shopper.GET("/checkout", h.Checkout.Summary)
		placeOrder := append(append([]gin.HandlerFunc{}, cfg.CheckoutMiddleware...), h.Checkout.PlaceOrder)
		shopper.POST("/checkout", placeOrder...)

		shopper.GET("/orders", h.Order.ListOrders)
		shopper.GET("/orders/:id", h.Order.GetOrder)
		shopper.GET("/order-success/:id", h.Order.OrderSuccess)
	}

	// Admin
	admin := r.Group("/admin")
	admin.Use(guard.RequireRole(cfg.Session, domain.RoleAdmin, cfg.LandingPath))
	{
		admin.GET("", h.Admin.Dashboard)

		admin.POST("/categories", h.Admin.CreateCategory)
		admin.PUT("/categories/:id", h.Admin.UpdateCategory)
		admin.DELETE("/categories/:id", h.Admin.DeleteCategory)

		admin.POST("/products", h.Admin.CreateProduct)
		admin.PUT("/products/:id", h.Admin.UpdateProduct)
		admin.DELETE("/products/:id", h.Admin.DeleteProduct)
		admin.DELETE("/products/:id/force", h.Admin.ForceDeleteProduct)

		admin.PATCH("/orders/:id", h.Admin.UpdateOrderStatus)
		admin.DELETE("/orders/:id", h.Admin.DeleteOrder)
	}
}
