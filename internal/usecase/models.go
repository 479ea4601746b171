package usecase

import (
	"time"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// CreateProductReq запрос на создание товара.
// Указатели позволяют отличить отсутствующее поле от нулевого значения.
type CreateProductReq struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int32
}

// UpdateProductReq запрос на обновление товара. Все поля необязательны,
// отсутствующее поле перезаписывается нулевым значением.
type UpdateProductReq struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int32
}

// GetPageReq запрос страницы товаров.
type GetPageReq struct {
	Page    int
	PerPage int
}

// EVENTS

type ProductEventType string

const (
	ProductCreated ProductEventType = "product.created"
	ProductUpdated ProductEventType = "product.updated"
	ProductDeleted ProductEventType = "product.deleted"
)

// ProductEvent событие об изменении товара.
type ProductEvent struct {
	EventID    string
	Type       ProductEventType
	ProductID  int64
	Product    *domain.Product // nil для product.deleted
	OccurredAt time.Time
}

// MAPPERS

func NewCreateProductReq(name *string, description *string, price *decimal.Decimal, quantity *int32) *CreateProductReq {
	return &CreateProductReq{
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
	}
}

func NewUpdateProductReq(name *string, description *string, price *decimal.Decimal, quantity *int32) *UpdateProductReq {
	return &UpdateProductReq{
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
	}
}

func NewGetPageReq(page, perPage int) *GetPageReq {
	return &GetPageReq{
		Page:    page,
		PerPage: perPage,
	}
}

func NewProductEvent(eventType ProductEventType, productID int64, product *domain.Product) *ProductEvent {
	return &ProductEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: time.Now().UTC(),
	}
}
