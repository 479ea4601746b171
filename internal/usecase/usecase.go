package usecase

import (
	"context"

	"github.com/DRSN-tech/product-api/internal/domain"
)

type ProductUC interface {
	GetProducts(ctx context.Context, req *GetPageReq) ([]domain.Product, error)
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}
