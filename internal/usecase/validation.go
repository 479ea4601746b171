package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/DRSN-tech/product-api/pkg/e"
	"github.com/shopspring/decimal"
)

const (
	MaxNameLength = 100
	// NUMERIC(10,2): не более 8 цифр в целой части
	maxPriceExclusive = 100_000_000
	priceScale        = 2
)

// validateCreate проверяет обязательные поля и ограничения запроса на создание.
func validateCreate(req *CreateProductReq) error {
	verr := e.NewValidationError()

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		verr.Add("name", "is required")
	} else {
		validateName(verr, *req.Name)
	}

	if req.Price == nil {
		verr.Add("price", "is required")
	} else {
		validatePrice(verr, *req.Price)
	}

	if req.Quantity == nil {
		verr.Add("quantity", "is required")
	}

	return verr.OrNil()
}

// validateUpdate проверяет только ограничения присутствующих полей.
func validateUpdate(req *UpdateProductReq) error {
	verr := e.NewValidationError()

	if req.Name != nil {
		validateName(verr, *req.Name)
	}

	if req.Price != nil {
		validatePrice(verr, *req.Price)
	}

	return verr.OrNil()
}

func validateName(verr *e.ValidationError, name string) {
	if utf8.RuneCountInString(name) > MaxNameLength {
		verr.Add("name", "must not exceed 100 characters")
	}
}

func validatePrice(verr *e.ValidationError, price decimal.Decimal) {
	switch {
	case price.IsNegative():
		verr.Add("price", "must not be negative")
	case !price.Equal(price.Truncate(priceScale)):
		verr.Add("price", "must have at most 2 decimal places")
	case price.GreaterThanOrEqual(decimal.NewFromInt(maxPriceExclusive)):
		verr.Add("price", "must be less than 100000000")
	}
}
