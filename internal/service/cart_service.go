package service

import (
	"context"
	"sync"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CartSummary is the cart with its derived totals
type CartSummary struct {
	Items    []domain.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal int64             `json:"subtotal"`
}

// IsEmpty reports whether the cart has no lines
func (c *CartSummary) IsEmpty() bool {
	return len(c.Items) == 0
}

func newCartSummary(items []domain.CartItem) *CartSummary {
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return &CartSummary{Items: items, Count: count, Subtotal: domain.Subtotal(items)}
}

// CartService defines the interface for cart management
type CartService interface {
	// Summary returns the cart and its subtotal
	Summary(ctx context.Context) (*CartSummary, error)

	// Add puts quantity units of a product into the cart
	Add(ctx context.Context, productID, quantity int) (*domain.CartItem, error)

	// Increase adds one unit to a cart line
	Increase(ctx context.Context, itemID int) error

	// Decrease removes one unit from a cart line; the last unit removes the line
	Decrease(ctx context.Context, itemID int) error

	// Remove deletes a cart line
	Remove(ctx context.Context, itemID int) error

	// Pending reports whether a change to the line is in progress
	Pending(itemID int) bool
}

type cartService struct {
	api   CartAPI
	cache *query.Cache

	mu      sync.Mutex
	pending map[int]bool
}

// NewCartService creates a new cart service
func NewCartService(api CartAPI, cache *query.Cache) CartService {
	return &cartService{
		api:     api,
		cache:   cache,
		pending: make(map[int]bool),
	}
}

func (s *cartService) items(ctx context.Context) ([]domain.CartItem, error) {
	return query.Fetch(ctx, s.cache, KeyCart, s.api.Cart)
}

func (s *cartService) Summary(ctx context.Context) (*CartSummary, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.cart.summary")
	defer span.End()

	items, err := s.items(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return newCartSummary(items), nil
}

func (s *cartService) Add(ctx context.Context, productID, quantity int) (*domain.CartItem, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.cart.add")
	defer span.End()
	span.SetAttributes(attribute.Int("product_id", productID), attribute.Int("quantity", quantity))

	req := &domain.AddToCartRequest{ProductID: productID, Quantity: quantity}
	if err := req.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	item, err := s.api.AddToCart(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.cache.Invalidate(KeyCart)
	span.SetStatus(codes.Ok, "")
	return item, nil
}

func (s *cartService) Increase(ctx context.Context, itemID int) error {
	ctx, span := telemetry.StartSpan(ctx, "service.cart.increase")
	defer span.End()
	span.SetAttributes(attribute.Int("item_id", itemID))

	return s.mutate(ctx, span, itemID, func(item *domain.CartItem) error {
		_, err := s.api.UpdateCartItem(ctx, itemID, &domain.UpdateCartRequest{Quantity: item.Quantity + 1})
		return err
	})
}

func (s *cartService) Decrease(ctx context.Context, itemID int) error {
	ctx, span := telemetry.StartSpan(ctx, "service.cart.decrease")
	defer span.End()
	span.SetAttributes(attribute.Int("item_id", itemID))

	return s.mutate(ctx, span, itemID, func(item *domain.CartItem) error {
		if item.Quantity <= 1 {
			return s.api.RemoveCartItem(ctx, itemID)
		}
		_, err := s.api.UpdateCartItem(ctx, itemID, &domain.UpdateCartRequest{Quantity: item.Quantity - 1})
		return err
	})
}

func (s *cartService) Remove(ctx context.Context, itemID int) error {
	ctx, span := telemetry.StartSpan(ctx, "service.cart.remove")
	defer span.End()
	span.SetAttributes(attribute.Int("item_id", itemID))

	if !s.begin(itemID) {
		span.SetStatus(codes.Error, domain.ErrItemPending.Error())
		return domain.ErrItemPending
	}
	defer s.done(itemID)

	if err := s.api.RemoveCartItem(ctx, itemID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.cache.Invalidate(KeyCart)
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *cartService) Pending(itemID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[itemID]
}

// mutate runs fn on the current state of a cart line with the line
// marked pending. The mark is always cleared; the cart is invalidated
// only when fn succeeds.
func (s *cartService) mutate(ctx context.Context, span trace.Span, itemID int, fn func(item *domain.CartItem) error) error {
	if !s.begin(itemID) {
		span.SetStatus(codes.Error, domain.ErrItemPending.Error())
		return domain.ErrItemPending
	}
	defer s.done(itemID)

	items, err := s.items(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var item *domain.CartItem
	for i := range items {
		if items[i].ID == itemID {
			item = &items[i]
			break
		}
	}
	if item == nil {
		span.SetStatus(codes.Error, domain.ErrCartItemNotFound.Error())
		return domain.ErrCartItemNotFound
	}

	if err := fn(item); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.cache.Invalidate(KeyCart)
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *cartService) begin(itemID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[itemID] {
		return false
	}
	s.pending[itemID] = true
	return true
}

func (s *cartService) done(itemID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, itemID)
}
