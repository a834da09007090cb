package service

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// AdminService defines the interface for canteen administration
type AdminService interface {
	CreateCategory(ctx context.Context, req *domain.CategoryRequest) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id int, req *domain.CategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int) error

	CreateProduct(ctx context.Context, form *domain.ProductForm) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, form *domain.ProductForm) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ForceDeleteProduct(ctx context.Context, id int) error

	UpdateOrderStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}

type adminService struct {
	api   AdminAPI
	cache *query.Cache
}

// NewAdminService creates a new admin service
func NewAdminService(api AdminAPI, cache *query.Cache) AdminService {
	return &adminService{api: api, cache: cache}
}

// normalizeCategory trims the request and derives a missing slug from the name
func normalizeCategory(req *domain.CategoryRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.ErrNameRequired
	}
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		req.Slug = slug.Make(req.Name)
	}
	return nil
}

func validateProductForm(form *domain.ProductForm) error {
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		return domain.ErrNameRequired
	}
	if form.Price < 0 {
		return domain.ErrInvalidPrice
	}
	if form.Stock < 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

func (s *adminService) CreateCategory(ctx context.Context, req *domain.CategoryRequest) (*domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.create_category")
	defer span.End()

	if err := normalizeCategory(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("slug", req.Slug))

	category, err := s.api.AdminCreateCategory(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.cache.Invalidate(KeyCategories)
	return category, nil
}

func (s *adminService) UpdateCategory(ctx context.Context, id int, req *domain.CategoryRequest) (*domain.Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.update_category")
	defer span.End()
	span.SetAttributes(attribute.Int("category_id", id))

	if err := normalizeCategory(req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	category, err := s.api.AdminUpdateCategory(ctx, id, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.cache.Invalidate(KeyCategories, KeyProducts)
	return category, nil
}

func (s *adminService) DeleteCategory(ctx context.Context, id int) error {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.delete_category")
	defer span.End()
	span.SetAttributes(attribute.Int("category_id", id))

	if err := s.api.AdminDeleteCategory(ctx, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.cache.Invalidate(KeyCategories, KeyProducts)
	return nil
}

func (s *adminService) CreateProduct(ctx context.Context, form *domain.ProductForm) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.create_product")
	defer span.End()

	if err := validateProductForm(form); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	product, err := s.api.AdminCreateProduct(ctx, form)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.cache.Invalidate(KeyProducts, KeyCategories)
	return product, nil
}

func (s *adminService) UpdateProduct(ctx context.Context, id int, form *domain.ProductForm) (*domain.Product, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.update_product")
	defer span.End()
	span.SetAttributes(attribute.Int("product_id", id))

	if err := validateProductForm(form); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	product, err := s.api.AdminUpdateProduct(ctx, id, form)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.cache.Invalidate(KeyProducts, KeyCategories, KeyCart)
	return product, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id int) error {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.delete_product")
	defer span.End()
	span.SetAttributes(attribute.Int("product_id", id))

	if err := s.api.AdminDeleteProduct(ctx, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.cache.Invalidate(KeyProducts, KeyCategories, KeyCart)
	return nil
}

func (s *adminService) ForceDeleteProduct(ctx context.Context, id int) error {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.force_delete_product")
	defer span.End()
	span.SetAttributes(attribute.Int("product_id", id))

	if err := s.api.AdminForceDeleteProduct(ctx, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.cache.Invalidate(KeyProducts, KeyCategories, KeyCart)
	return nil
}

func (s *adminService) UpdateOrderStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.update_order_status")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", id), attribute.String("payment_status", string(status)))

	status, err := domain.ParsePaymentStatus(string(status))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	order, err := s.api.AdminUpdateOrder(ctx, id, &domain.UpdateOrderStatusRequest{PaymentStatus: status})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	s.cache.Invalidate(KeyOrders)
	return order, nil
}

func (s *adminService) DeleteOrder(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "service.admin.delete_order")
	defer span.End()
	span.SetAttributes(attribute.String("order_id", id))

	if err := s.api.AdminDeleteOrder(ctx, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.cache.Invalidate(KeyOrders)
	return nil
}
