package e

import (
	"fmt"
	"sort"
	"strings"
)

var (
	// Внутренние ошибки
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 400 Bad Request
	ErrStatusBadRequest  = fmt.Errorf("bad request")
	ErrValidation        = fmt.Errorf("validation failed")
	ErrInvalidJSON       = fmt.Errorf("invalid json body")
	ErrInvalidProductID  = fmt.Errorf("invalid product id")
	ErrInvalidPagination = fmt.Errorf("page and perPage must be positive integers")
)

// ValidationError содержит ошибки валидации по полям запроса.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add запоминает первую ошибку для поля.
func (v *ValidationError) Add(field, message string) {
	if _, ok := v.Fields[field]; ok {
		return
	}
	v.Fields[field] = message
}

func (v *ValidationError) HasErrors() bool {
	return len(v.Fields) > 0
}

// OrNil возвращает nil, если ошибок нет. Иначе возвращает саму ошибку.
func (v *ValidationError) OrNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (v *ValidationError) Unwrap() error {
	return ErrValidation
}

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
