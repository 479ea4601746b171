package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/DRSN-tech/product-api/internal/usecase"
	"github.com/DRSN-tech/product-api/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ProductRequest тело POST и PUT запросов.
type ProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Quantity    *int32           `json:"quantity"`
}

type ProductResponse struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Description  *string     `json:"description"`
	Price        json.Number `json:"price" swaggertype:"number"`
	Quantity     int32       `json:"quantity"`
	CreatedDate  time.Time   `json:"createdDate"`
	ModifiedDate *time.Time  `json:"modifiedDate"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        json.Number(p.Price.StringFixed(2)),
		Quantity:     p.Quantity,
		CreatedDate:  p.CreatedDate,
		ModifiedDate: p.ModifiedDate,
	}
}

func toArrProductResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(products))
	for i := range products {
		res = append(res, toProductResponse(&products[i]))
	}
	return res
}

// ToHTTPResponse сопоставляет ошибку со статусом и текстом ответа.
func ToHTTPResponse(err error) (int, *ErrorResponse) {
	var verr *e.ValidationError

	switch {
	case errors.As(err, &verr):
		resp := NewErrorResponse(http.StatusBadRequest, e.ErrValidation.Error())
		resp.Fields = verr.Fields
		return http.StatusBadRequest, resp
	case errors.Is(err, e.ErrInvalidJSON):
		return http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, e.ErrInvalidJSON.Error())
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, e.ErrInvalidProductID.Error())
	case errors.Is(err, e.ErrInvalidPagination):
		return http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, e.ErrInvalidPagination.Error())
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, e.ErrStatusBadRequest.Error())
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, nil
	default:
		return http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, e.ErrInternalServerError.Error())
	}
}

// WriteError пишет ошибку. 404 отдается с пустым телом.
func WriteError(w http.ResponseWriter, err error) {
	code, resp := ToHTTPResponse(err)
	if resp == nil {
		w.WriteHeader(code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func parseID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, e.Wrap(fmt.Sprintf("id %q", raw), e.ErrInvalidProductID)
	}

	return id, nil
}

// parsePagination читает page и perPage. Отсутствующие параметры
// получают значения по умолчанию, проверку диапазона делает usecase.
func parsePagination(r *http.Request, defaultPerPage int) (*usecase.GetPageReq, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return nil, err
	}

	perPage, err := queryInt(r, "perPage", defaultPerPage)
	if err != nil {
		return nil, err
	}

	return usecase.NewGetPageReq(page, perPage), nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, e.Wrap(fmt.Sprintf("%s=%q", key, raw), e.ErrInvalidPagination)
	}

	return v, nil
}

func decodeProductRequest(w http.ResponseWriter, r *http.Request) (*ProductRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	var req ProductRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrInvalidJSON, err))
	}

	// Тело должно содержать ровно один JSON-объект
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidJSON)
	}

	return &req, nil
}
