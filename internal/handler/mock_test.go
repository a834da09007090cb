package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/prohmpiriya/canteen-storefront/internal/domain"
	"github.com/prohmpiriya/canteen-storefront/internal/query"
	"github.com/prohmpiriya/canteen-storefront/internal/service"
)

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context) (*domain.User, error) {
	args := m.Called(ctx)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type MockCatalogService struct{ mock.Mock }

func (m *MockCatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]domain.Category)
	return cats, args.Error(1)
}

func (m *MockCatalogService) Category(ctx context.Context, id int) (*domain.Category, error) {
	args := m.Called(ctx, id)
	cat, _ := args.Get(0).(*domain.Category)
	return cat, args.Error(1)
}

func (m *MockCatalogService) Product(ctx context.Context, id int) (*domain.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *MockCatalogService) Featured(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

func (m *MockCatalogService) Browse(ctx context.Context, filter service.ProductFilter, page int) (query.PageView[domain.Product], error) {
	args := m.Called(ctx, filter, page)
	return args.Get(0).(query.PageView[domain.Product]), args.Error(1)
}

type MockCartService struct {
	mock.Mock
	pending map[int]bool
}

func (m *MockCartService) Summary(ctx context.Context) (*service.CartSummary, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*service.CartSummary)
	return s, args.Error(1)
}

func (m *MockCartService) Add(ctx context.Context, productID, quantity int) (*domain.CartItem, error) {
	args := m.Called(ctx, productID, quantity)
	item, _ := args.Get(0).(*domain.CartItem)
	return item, args.Error(1)
}

func (m *MockCartService) Increase(ctx context.Context, itemID int) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *MockCartService) Decrease(ctx context.Context, itemID int) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *MockCartService) Remove(ctx context.Context, itemID int) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *MockCartService) Pending(itemID int) bool {
	return m.pending[itemID]
}

type MockCheckoutService struct{ mock.Mock }

func (m *MockCheckoutService) Summary(ctx context.Context) (*service.CheckoutSummary, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*service.CheckoutSummary)
	return s, args.Error(1)
}

func (m *MockCheckoutService) PlaceOrder(ctx context.Context, items []domain.CartItem, method domain.PaymentMethod) (*domain.Order, error) {
	args := m.Called(ctx, items, method)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) History(ctx context.Context, page int) (query.PageView[domain.Order], error) {
	args := m.Called(ctx, page)
	return args.Get(0).(query.PageView[domain.Order]), args.Error(1)
}

func (m *MockOrderService) Order(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

func (m *MockOrderService) Reset() {
	m.Called()
}

type MockAdminService struct{ mock.Mock }

func (m *MockAdminService) CreateCategory(ctx context.Context, req *domain.CategoryRequest) (*domain.Category, error) {
	args := m.Called(ctx, req)
	c, _ := args.Get(0).(*domain.Category)
	return c, args.Error(1)
}

func (m *MockAdminService) UpdateCategory(ctx context.Context, id int, req *domain.CategoryRequest) (*domain.Category, error) {
	args := m.Called(ctx, id, req)
	c, _ := args.Get(0).(*domain.Category)
	return c, args.Error(1)
}

func (m *MockAdminService) DeleteCategory(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAdminService) CreateProduct(ctx context.Context, form *domain.ProductForm) (*domain.Product, error) {
	args := m.Called(ctx, form)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *MockAdminService) UpdateProduct(ctx context.Context, id int, form *domain.ProductForm) (*domain.Product, error) {
	args := m.Called(ctx, id, form)
	p, _ := args.Get(0).(*domain.Product)
	return p, args.Error(1)
}

func (m *MockAdminService) DeleteProduct(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAdminService) ForceDeleteProduct(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAdminService) UpdateOrderStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error) {
	args := m.Called(ctx, id, status)
	o, _ := args.Get(0).(*domain.Order)
	return o, args.Error(1)
}

func (m *MockAdminService) DeleteOrder(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
