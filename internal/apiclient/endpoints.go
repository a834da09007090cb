package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
)

// ProductQuery filters the product listing
type ProductQuery struct {
	Page       int
	Search     string
	CategoryID int
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	v.Set("page", strconv.Itoa(page))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID > 0 {
		v.Set("category_id", strconv.Itoa(q.CategoryID))
	}
	return v
}

// === Auth ===

func (c *Client) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/login", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/register", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Logout(ctx context.Context) (*domain.MessageResponse, error) {
	var out domain.MessageResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/logout"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user owning the current token
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// === Catalog ===

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Category(ctx context.Context, id int) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/categories/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Products(ctx context.Context, q ProductQuery) (*domain.Page[domain.Product], error) {
	var out domain.Page[domain.Product]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products", query: q.values()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Product(ctx context.Context, id int) (*domain.Product, error) {
	var out domain.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/products/%d", id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// === Cart ===

func (c *Client) Cart(ctx context.Context) ([]domain.CartItem, error) {
	out := []domain.CartItem{}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/cart"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddToCart(ctx context.Context, req *domain.AddToCartRequest) (*domain.CartItem, error) {
	var out domain.CartItem
	if err := c.do(ctx, request{method: http.MethodPost, path: "/cart", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, itemID int, req *domain.UpdateCartRequest) (*domain.CartItem, error) {
	var out domain.CartItem
	path := fmt.Sprintf("/cart-items/%d", itemID)
	if err := c.do(ctx, request{method: http.MethodPut, path: path, body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/cart-items/%d", itemID)}, nil)
}

// === Orders ===

func (c *Client) Orders(ctx context.Context, page int) (*domain.Page[domain.Order], error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{"page": {strconv.Itoa(page)}}

	var out domain.Page[domain.Order]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Order(ctx context.Context, id string) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, request{method: http.MethodGet, path: "/orders/" + url.PathEscape(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Checkout places an order for the current cart
func (c *Client) Checkout(ctx context.Context, req *domain.CheckoutRequest) (*domain.Order, error) {
	var out domain.Order
	if err := c.do(ctx, request{method: http.MethodPost, path: "/orders", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// === Admin: Categories ===

func (c *Client) AdminCreateCategory(ctx context.Context, req *domain.CategoryRequest) (*domain.Category, error) {
	var out domain.Category
	if err := c.do(ctx, request{method: http.MethodPost, path: "/admin/categories", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminUpdateCategory(ctx context.Context, id int, req *domain.CategoryRequest) (*domain.Category, error) {
	var out domain.Category
	path := fmt.Sprintf("/admin/categories/%d", id)
	if err := c.do(ctx, request{method: http.MethodPut, path: path, body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminDeleteCategory(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/admin/categories/%d", id)}, nil)
}

// === Admin: Products ===

func (c *Client) AdminCreateProduct(ctx context.Context, form *domain.ProductForm) (*domain.Product, error) {
	body, err := encodeProductForm(form, "")
	if err != nil {
		return nil, err
	}

	var out domain.Product
	if err := c.do(ctx, request{method: http.MethodPost, path: "/admin/products", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdminUpdateProduct sends the form as POST with _method=PUT so the
// backend accepts the file upload
func (c *Client) AdminUpdateProduct(ctx context.Context, id int, form *domain.ProductForm) (*domain.Product, error) {
	body, err := encodeProductForm(form, http.MethodPut)
	if err != nil {
		return nil, err
	}

	var out domain.Product
	path := fmt.Sprintf("/admin/products/%d", id)
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminDeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/admin/products/%d", id)}, nil)
}

// AdminForceDeleteProduct removes a product permanently
func (c *Client) AdminForceDeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/admin/products/%d/force", id)}, nil)
}

// === Admin: Orders ===

func (c *Client) AdminUpdateOrder(ctx context.Context, id string, req *domain.UpdateOrderStatusRequest) (*domain.Order, error) {
	var out domain.Order
	path := "/admin/orders/" + url.PathEscape(id)
	if err := c.do(ctx, request{method: http.MethodPatch, path: path, body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminDeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/admin/orders/" + url.PathEscape(id)}, nil)
}
