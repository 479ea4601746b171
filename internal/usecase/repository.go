package usecase

import (
	"context"

	"github.com/DRSN-tech/product-api/internal/domain"
)

// ProductRepository описывает хранилище товаров.
type ProductRepository interface {
	// Add проставляет дату создания, сохраняет товар и возвращает его с присвоенным ID.
	Add(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// Find возвращает (nil, nil), если товара нет.
	Find(ctx context.Context, id int64) (*domain.Product, error)
	// GetPage возвращает товары по убыванию ID, пропуская (page-1)*perPage записей.
	GetPage(ctx context.Context, page, perPage int) ([]domain.Product, error)
	GetAll(ctx context.Context) ([]domain.Product, error)
	// Update проставляет дату изменения и перезаписывает все изменяемые поля по ID.
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Remove(ctx context.Context, id int64) error
}

// CacheRepository кэширует отдельные товары по ID.
type CacheRepository interface {
	// GetProduct возвращает (nil, nil) при промахе.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}
