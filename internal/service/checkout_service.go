package service

import (
	"context"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// CheckoutSummary is what the checkout view shows before placing an order
type CheckoutSummary struct {
	CartSummary
	Total          int64                  `json:"total"`
	PaymentMethods []domain.PaymentMethod `json:"payment_methods"`
}

// CheckoutService defines the interface for placing orders
type CheckoutService interface {
	// Summary waits for the cart and prices it
	Summary(ctx context.Context) (*CheckoutSummary, error)

	// PlaceOrder submits the cart the shopper reviewed. An empty cart is
	// rejected without calling the backend.
	PlaceOrder(ctx context.Context, items []domain.CartItem, method domain.PaymentMethod) (*domain.Order, error)
}

type checkoutService struct {
	api   OrderAPI
	cart  CartService
	cache *query.Cache
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(api OrderAPI, cart CartService, cache *query.Cache) CheckoutService {
	return &checkoutService{api: api, cart: cart, cache: cache}
}

func (s *checkoutService) Summary(ctx context.Context) (*CheckoutSummary, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.checkout.summary")
	defer span.End()

	cart, err := s.cart.Summary(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &CheckoutSummary{
		CartSummary:    *cart,
		Total:          cart.Subtotal,
		PaymentMethods: []domain.PaymentMethod{domain.PaymentQRIS, domain.PaymentPostpaid},
	}, nil
}

func (s *checkoutService) PlaceOrder(ctx context.Context, items []domain.CartItem, method domain.PaymentMethod) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.checkout.place_order")
	defer span.End()
	span.SetAttributes(
		attribute.Int("items", len(items)),
		attribute.String("payment_method", string(method)),
	)

	if len(items) == 0 {
		span.SetStatus(codes.Error, domain.ErrEmptyCart.Error())
		return nil, domain.ErrEmptyCart
	}
	method, err := domain.ParsePaymentMethod(string(method))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	order, err := s.api.Checkout(ctx, &domain.CheckoutRequest{PaymentMethod: method})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout failed")
		return nil, err
	}

	s.cache.Invalidate(KeyCart, KeyOrders)
	span.SetAttributes(attribute.String("order_id", order.ID))
	span.SetStatus(codes.Ok, "")
	return order, nil
}
