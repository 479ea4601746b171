package usecase

import (
	"context"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) Add(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	res, _ := args.Get(0).(*domain.Product)
	return res, args.Error(1)
}

func (m *mockProductRepo) Find(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*domain.Product)
	return res, args.Error(1)
}

func (m *mockProductRepo) GetPage(ctx context.Context, page, perPage int) ([]domain.Product, error) {
	args := m.Called(ctx, page, perPage)
	res, _ := args.Get(0).([]domain.Product)
	return res, args.Error(1)
}

func (m *mockProductRepo) GetAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.Product)
	return res, args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	res, _ := args.Get(0).(*domain.Product)
	return res, args.Error(1)
}

func (m *mockProductRepo) Remove(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockCacheRepo struct {
	mock.Mock
}

func (m *mockCacheRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*domain.Product)
	return res, args.Error(1)
}

func (m *mockCacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockCacheRepo) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event *ProductEvent) error {
	return m.Called(ctx, event).Error(0)
}
