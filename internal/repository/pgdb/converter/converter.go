package converter

import (
	"time"

	"github.com/DRSN-tech/product-api/internal/domain"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter interface {
	ToModel(entity *domain.Product) *ProductModel
	ToEntity(model *ProductModel) *domain.Product
	ToArrEntity(models []ProductModel) []domain.Product
}

type productConverter struct{}

func NewProductConverter() ProductConverter {
	return productConverter{}
}

func (productConverter) ToModel(entity *domain.Product) *ProductModel {
	if entity == nil {
		return nil
	}

	return &ProductModel{
		ID:           entity.ID,
		Name:         entity.Name,
		Description:  entity.Description,
		Price:        entity.Price,
		Quantity:     entity.Quantity,
		CreatedDate:  ConvertTime(entity.CreatedDate),
		ModifiedDate: ConvertPointerTime(entity.ModifiedDate),
	}
}

func (productConverter) ToEntity(model *ProductModel) *domain.Product {
	if model == nil {
		return nil
	}

	return &domain.Product{
		ID:           model.ID,
		Name:         model.Name,
		Description:  model.Description,
		Price:        model.Price,
		Quantity:     model.Quantity,
		CreatedDate:  ConvertTime(model.CreatedDate),
		ModifiedDate: ConvertPointerTime(model.ModifiedDate),
	}
}

func (c productConverter) ToArrEntity(models []ProductModel) []domain.Product {
	result := make([]domain.Product, 0, len(models))
	for i := range models {
		result = append(result, *c.ToEntity(&models[i]))
	}

	return result
}

// ConvertPointerTime приводит время к UTC, сохраняя nil.
func ConvertPointerTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}

func ConvertTime(t time.Time) time.Time {
	return t.UTC()
}
