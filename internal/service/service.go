package service

import (
	"context"

	"github.com/prohmpiriya/canteen-storefront/internal/apiclient"
	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/session"
)

// Cache keys
const (
	KeyCart       = "cart"
	KeyOrders     = "orders"
	KeyProducts   = "products"
	KeyCategories = "categories"
)

// SessionStore is the session state the services read and write
type SessionStore interface {
	SetSession(ctx context.Context, token string, role domain.Role) error
	ClearSession(ctx context.Context) error
	Snapshot() session.Snapshot
}

// AuthAPI is the authentication part of the backend
type AuthAPI interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Logout(ctx context.Context) (*domain.MessageResponse, error)
	Me(ctx context.Context) (*domain.User, error)
}

// CatalogAPI is the public catalog part of the backend
type CatalogAPI interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id int) (*domain.Category, error)
	Products(ctx context.Context, q apiclient.ProductQuery) (*domain.Page[domain.Product], error)
	Product(ctx context.Context, id int) (*domain.Product, error)
}

// CartAPI is the cart part of the backend
type CartAPI interface {
	Cart(ctx context.Context) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, req *domain.AddToCartRequest) (*domain.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID int, req *domain.UpdateCartRequest) (*domain.CartItem, error)
	RemoveCartItem(ctx context.Context, itemID int) error
}

// OrderAPI is the order part of the backend
type OrderAPI interface {
	Orders(ctx context.Context, page int) (*domain.Page[domain.Order], error)
	Order(ctx context.Context, id string) (*domain.Order, error)
	Checkout(ctx context.Context, req *domain.CheckoutRequest) (*domain.Order, error)
}

// AdminAPI is the admin-only part of the backend
type AdminAPI interface {
	AdminCreateCategory(ctx context.Context, req *domain.CategoryRequest) (*domain.Category, error)
	AdminUpdateCategory(ctx context.Context, id int, req *domain.CategoryRequest) (*domain.Category, error)
	AdminDeleteCategory(ctx context.Context, id int) error
	AdminCreateProduct(ctx context.Context, form *domain.ProductForm) (*domain.Product, error)
	AdminUpdateProduct(ctx context.Context, id int, form *domain.ProductForm) (*domain.Product, error)
	AdminDeleteProduct(ctx context.Context, id int) error
	AdminForceDeleteProduct(ctx context.Context, id int) error
	AdminUpdateOrder(ctx context.Context, id string, req *domain.UpdateOrderStatusRequest) (*domain.Order, error)
	AdminDeleteOrder(ctx context.Context, id string) error
}
