package domain

import "time"

// User represents the authenticated account
type User struct {
	ID              string     `json:"id"` // ULID
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	Type            Role       `json:"type"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Category groups products on the menu
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Products    []Product `json:"products,omitempty"`
}

// Product is a menu item. Price is in minor currency units.
type Product struct {
	ID          int       `json:"id"`
	CategoryID  *int      `json:"category_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Category    *Category `json:"category"`
	Pivot       *Pivot    `json:"pivot,omitempty"`
}

// InStock reports whether at least one unit is available
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// Pivot holds the quantity and price at the time an order was placed
type Pivot struct {
	Quantity int   `json:"quantity"`
	Price    int64 `json:"price"`
}

// CartItem is one product line in the shopper's cart
type CartItem struct {
	ID        int       `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Product   Product   `json:"product"`
}

// LineTotal returns price times quantity
func (c *CartItem) LineTotal() int64 {
	return c.Product.Price * int64(c.Quantity)
}

// Order is a placed order
type Order struct {
	ID            string        `json:"id"` // ULID
	UserID        *string       `json:"user_id"`
	TotalPrice    int64         `json:"total_price"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	User          *User         `json:"user,omitempty"`
	Products      []Product     `json:"products,omitempty"`
}

// PageLinks are the navigation links of a paginated listing
type PageLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// PageMeta describes the position of a page in a listing
type PageMeta struct {
	CurrentPage int    `json:"current_page"`
	From        int    `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          int    `json:"to"`
	Total       int    `json:"total"`
}

// Page is the paginated envelope returned by listing endpoints
type Page[T any] struct {
	Data  []T       `json:"data"`
	Links PageLinks `json:"links"`
	Meta  PageMeta  `json:"meta"`
}

// HasNext reports whether a later page exists
func (p *Page[T]) HasNext() bool {
	return p.Meta.CurrentPage < p.Meta.LastPage
}

// HasPrev reports whether an earlier page exists
func (p *Page[T]) HasPrev() bool {
	return p.Meta.CurrentPage > 1
}

// Subtotal sums the line totals of items
func Subtotal(items []CartItem) int64 {
	var total int64
	for i := range items {
		total += items[i].LineTotal()
	}
	return total
}
