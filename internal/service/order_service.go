package service

import (
	"context"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// OrderService defines the interface for order history
type OrderService interface {
	// History shows a page of the shopper's orders, keeping the previous
	// page visible while a new one loads
	History(ctx context.Context, page int) (query.PageView[domain.Order], error)

	// Order returns one order with its products
	Order(ctx context.Context, id string) (*domain.Order, error)

	// Reset forgets the history view
	Reset()
}

type orderService struct {
	api   OrderAPI
	cache *query.Cache
	pager *query.Pager[domain.Order]
}

// NewOrderService creates a new order service
func NewOrderService(api OrderAPI, cache *query.Cache) OrderService {
	s := &orderService{api: api, cache: cache}
	s.pager = query.NewPager(s.fetchPage)
	return s
}

func (s *orderService) History(ctx context.Context, page int) (query.PageView[domain.Order], error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.history")
	defer span.End()
	span.SetAttributes(attribute.Int("page", page))

	view, err := s.pager.GoTo(ctx, page)
	if err != nil && err != query.ErrSuperseded {
		span.SetStatus(codes.Error, err.Error())
	}
	return view, err
}

func (s *orderService) Order(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.order.get")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", id))

	order, err := query.Fetch(ctx, s.cache, query.Key(KeyOrders, "detail", id), func(ctx context.Context) (*domain.Order, error) {
		return s.api.Order(ctx, id)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return order, nil
}

func (s *orderService) Reset() {
	s.pager.Reset()
}

func (s *orderService) fetchPage(ctx context.Context, page int) (*domain.Page[domain.Order], error) {
	return query.Fetch(ctx, s.cache, query.Key(KeyOrders, page), func(ctx context.Context) (*domain.Page[domain.Order], error) {
		return s.api.Orders(ctx, page)
	})
}
