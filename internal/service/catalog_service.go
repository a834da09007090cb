package service

import (
	"context"
	"sync"

	"github.com/prohmpiriya/canteen-storefront/internal/apiclient"
	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ProductFilter narrows the menu listing
type ProductFilter struct {
	Search     string
	CategoryID int
}

// CatalogService defines the interface for browsing the menu
type CatalogService interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id int) (*domain.Category, error)
	Product(ctx context.Context, id int) (*domain.Product, error)

	// Featured returns the first unfiltered page of the menu without
	// touching the Browse position
	Featured(ctx context.Context) ([]domain.Product, error)

	// Browse shows page of the menu. Changing the filter starts over at
	// page 1; a result superseded by a later Browse is discarded.
	Browse(ctx context.Context, filter ProductFilter, page int) (query.PageView[domain.Product], error)
}

type catalogService struct {
	api   CatalogAPI
	cache *query.Cache
	pager *query.Pager[domain.Product]

	mu     sync.Mutex
	filter ProductFilter
}

// NewCatalogService creates a new catalog service
func NewCatalogService(api CatalogAPI, cache *query.Cache) CatalogService {
	s := &catalogService{api: api, cache: cache}
	s.pager = query.NewPager(s.fetchPage)
	return s
}

func (s *catalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.categories")
	defer span.End()

	categories, err := query.Fetch(ctx, s.cache, KeyCategories, s.api.Categories)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return categories, nil
}

func (s *catalogService) Category(ctx context.Context, id int) (*domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.category")
	defer span.End()
	span.SetAttributes(attribute.Int("category_id", id))

	category, err := query.Fetch(ctx, s.cache, query.Key(KeyCategories, id), func(ctx context.Context) (*domain.Category, error) {
		return s.api.Category(ctx, id)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return category, nil
}

func (s *catalogService) Product(ctx context.Context, id int) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.product")
	defer span.End()
	span.SetAttributes(attribute.Int("product_id", id))

	product, err := query.Fetch(ctx, s.cache, query.Key(KeyProducts, "detail", id), func(ctx context.Context) (*domain.Product, error) {
		return s.api.Product(ctx, id)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return product, nil
}

func (s *catalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.featured")
	defer span.End()

	q := apiclient.ProductQuery{Page: 1}
	key := query.Key(KeyProducts, q.Page, q.Search, q.CategoryID)
	page, err := query.Fetch(ctx, s.cache, key, func(ctx context.Context) (*domain.Page[domain.Product], error) {
		return s.api.Products(ctx, q)
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return page.Data, nil
}

func (s *catalogService) Browse(ctx context.Context, filter ProductFilter, page int) (query.PageView[domain.Product], error) {
	ctx, span := telemetry.StartSpan(ctx, "service.catalog.browse")
	defer span.End()
	span.SetAttributes(
		attribute.Int("page", page),
		attribute.String("search", filter.Search),
		attribute.Int("category_id", filter.CategoryID),
	)

	s.mu.Lock()
	if filter != s.filter {
		s.filter = filter
		s.pager.Reset()
		page = 1
	}
	s.mu.Unlock()

	view, err := s.pager.GoTo(ctx, page)
	if err != nil && err != query.ErrSuperseded {
		span.SetStatus(codes.Error, err.Error())
	}
	return view, err
}

func (s *catalogService) fetchPage(ctx context.Context, page int) (*domain.Page[domain.Product], error) {
	s.mu.Lock()
	q := apiclient.ProductQuery{Page: page, Search: s.filter.Search, CategoryID: s.filter.CategoryID}
	s.mu.Unlock()

	key := query.Key(KeyProducts, q.Page, q.Search, q.CategoryID)
	return query.Fetch(ctx, s.cache, key, func(ctx context.Context) (*domain.Page[domain.Product], error) {
		return s.api.Products(ctx, q)
	})
}
