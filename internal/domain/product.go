package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога
type Product struct {
	ID           int64
	Name         string
	Description  *string
	Price        decimal.Decimal // NUMERIC(10,2)
	Quantity     int32
	CreatedDate  time.Time
	ModifiedDate *time.Time // nil до первого обновления
}

func NewProduct(name string, description *string, price decimal.Decimal, quantity int32) *Product {
	return &Product{
		Name:        name,
		Description: description,
		Price:       price,
		Quantity:    quantity,
	}
}

// Overwrite перезаписывает все изменяемые поля товара.
func (p *Product) Overwrite(name string, description *string, price decimal.Decimal, quantity int32) {
	p.Name = name
	p.Description = description
	p.Price = price
	p.Quantity = quantity
}

// IsModified сообщает, обновлялся ли товар после создания.
func (p *Product) IsModified() bool {
	return p.ModifiedDate != nil
}

// SameState сообщает, совпадают ли все поля двух версий товара.
// nil равен только nil.
func (p *Product) SameState(other *Product) bool {
	if p == nil || other == nil {
		return p == other
	}

	return p.ID == other.ID &&
		p.Name == other.Name &&
		equalPtr(p.Description, other.Description) &&
		p.Price.Equal(other.Price) &&
		p.Quantity == other.Quantity &&
		p.CreatedDate.Equal(other.CreatedDate) &&
		equalTimePtr(p.ModifiedDate, other.ModifiedDate)
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
