package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/DRSN-tech/product-api/internal/infrastructure/kafka"
	"github.com/DRSN-tech/product-api/internal/repository/memory"
	"github.com/DRSN-tech/product-api/internal/repository/redis"
	"github.com/DRSN-tech/product-api/internal/usecase"
	"github.com/DRSN-tech/product-api/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, uc usecase.ProductUC) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	NewRouter(r, logger.Nop{}).Init(uc, RouterOptions{
		DefaultPerPage: 10,
		SwaggerHost:    "localhost:8080",
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func newMemoryServer(t *testing.T) *httptest.Server {
	uc := usecase.NewProductUC(memory.NewProductRepo(), redis.NopCacheRepo{}, kafka.NopProducer{}, logger.Nop{}, 100)
	return newTestServer(t, uc)
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func createWidget(t *testing.T, base, body string) map[string]any {
	t.Helper()

	resp := do(t, http.MethodPost, base+"/api/products", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[map[string]any](t, resp)
}

func TestCreateProduct(t *testing.T) {
	srv := newMemoryServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/products", `{"name":"Widget","price":9.99,"quantity":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	id := body["id"].(float64)
	assert.Greater(t, id, float64(0))
	assert.Equal(t, "Widget", body["name"])
	assert.Equal(t, 9.99, body["price"])
	assert.EqualValues(t, 5, body["quantity"])
	assert.NotEmpty(t, body["createdDate"])
	assert.Nil(t, body["modifiedDate"])
	assert.Nil(t, body["description"])

	assert.Equal(t, fmt.Sprintf("/api/products/%d", int64(id)), resp.Header.Get("Location"))
}

func TestCreateProductPriceHasTwoDecimals(t *testing.T) {
	srv := newMemoryServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/products", `{"name":"Widget","price":12.5,"quantity":1}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Contains(t, readBody(t, resp), `"price":12.50`)
}

func TestCreateProductValidation(t *testing.T) {
	srv := newMemoryServer(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing name", body: `{"price":1,"quantity":1}`, field: "name"},
		{name: "long name", body: fmt.Sprintf(`{"name":%q,"price":1,"quantity":1}`, strings.Repeat("a", 101)), field: "name"},
		{name: "missing price", body: `{"name":"a","quantity":1}`, field: "price"},
		{name: "missing quantity", body: `{"name":"a","price":1}`, field: "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/products", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			errResp := decode[ErrorResponse](t, resp)
			assert.Equal(t, http.StatusBadRequest, errResp.Code)
			assert.Equal(t, "validation failed", errResp.Message)
			assert.Contains(t, errResp.Fields, tt.field)
		})
	}

	// ничего не создано
	list := decode[[]ProductResponse](t, do(t, http.MethodGet, srv.URL+"/api/products/all", ""))
	assert.Empty(t, list)
}

func TestCreateProductInvalidJSON(t *testing.T) {
	srv := newMemoryServer(t)

	for _, body := range []string{`{"name":`, `{"name":"a","price":"abc","quantity":1}`, `{"name":"a"} {}`} {
		resp := do(t, http.MethodPost, srv.URL+"/api/products", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestGetProduct(t *testing.T) {
	srv := newMemoryServer(t)
	created := createWidget(t, srv.URL, `{"name":"Widget","description":"blue","price":9.99,"quantity":5}`)

	resp := do(t, http.MethodGet, fmt.Sprintf("%s/api/products/%v", srv.URL, created["id"]), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, created["id"], body["id"])
	assert.Equal(t, "blue", body["description"])
}

func TestGetProductNotFoundHasEmptyBody(t *testing.T) {
	srv := newMemoryServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/products/9999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, readBody(t, resp))
}

func TestGetProductInvalidID(t *testing.T) {
	srv := newMemoryServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateProduct(t *testing.T) {
	srv := newMemoryServer(t)
	created := createWidget(t, srv.URL, `{"name":"Widget","description":"blue","price":9.99,"quantity":5}`)
	url := fmt.Sprintf("%s/api/products/%v", srv.URL, created["id"])

	resp := do(t, http.MethodPut, url, `{"name":"Widget2","price":12.50,"quantity":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "Widget2", body["name"])
	assert.Equal(t, 12.5, body["price"])
	assert.EqualValues(t, 1, body["quantity"])
	assert.Nil(t, body["description"])
	assert.NotNil(t, body["modifiedDate"])
	assert.Equal(t, created["createdDate"], body["createdDate"])
}

func TestUpdateProductNotFound(t *testing.T) {
	srv := newMemoryServer(t)

	resp := do(t, http.MethodPut, srv.URL+"/api/products/9999", `{"name":"Widget2","price":1,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, readBody(t, resp))
}

func TestDeleteProduct(t *testing.T) {
	srv := newMemoryServer(t)
	created := createWidget(t, srv.URL, `{"name":"Widget","price":9.99,"quantity":5}`)
	url := fmt.Sprintf("%s/api/products/%v", srv.URL, created["id"])

	resp := do(t, http.MethodDelete, url, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, http.StatusNotFound, do(t, http.MethodGet, url, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, http.MethodDelete, url, "").StatusCode)
}

func TestListProducts(t *testing.T) {
	srv := newMemoryServer(t)
	for i := range 3 {
		createWidget(t, srv.URL, fmt.Sprintf(`{"name":"p%d","price":1,"quantity":1}`, i))
	}

	first := decode[[]ProductResponse](t, do(t, http.MethodGet, srv.URL+"/api/products?page=1&perPage=2", ""))
	second := decode[[]ProductResponse](t, do(t, http.MethodGet, srv.URL+"/api/products?page=2&perPage=2", ""))
	all := decode[[]ProductResponse](t, do(t, http.MethodGet, srv.URL+"/api/products/all", ""))

	require.Len(t, first, 2)
	require.Len(t, second, 1)
	assert.Equal(t, "p2", first[0].Name)
	assert.Equal(t, all, append(first, second...))

	defaults := decode[[]ProductResponse](t, do(t, http.MethodGet, srv.URL+"/api/products", ""))
	assert.Len(t, defaults, 3)

	beyond := decode[[]ProductResponse](t, do(t, http.MethodGet, srv.URL+"/api/products?page=5&perPage=2", ""))
	assert.Empty(t, beyond)
}

func TestListProductsHugePageIsEmpty(t *testing.T) {
	srv := newMemoryServer(t)
	for i := range 3 {
		createWidget(t, srv.URL, fmt.Sprintf(`{"name":"p%d","price":1,"quantity":1}`, i))
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/products?page=100000000000000000&perPage=100", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(readBody(t, resp)))
}

func TestListProductsBadPagination(t *testing.T) {
	srv := newMemoryServer(t)

	for _, q := range []string{"page=0", "perPage=0", "page=-1", "page=abc"} {
		resp := do(t, http.MethodGet, srv.URL+"/api/products?"+q, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

type failingUC struct {
	usecase.ProductUC
}

func (failingUC) GetProduct(context.Context, int64) (*domain.Product, error) {
	return nil, errors.New("connection refused")
}

func TestInternalErrorIsHidden(t *testing.T) {
	srv := newTestServer(t, failingUC{})

	resp := do(t, http.MethodGet, srv.URL+"/api/products/1", "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	errResp := decode[ErrorResponse](t, resp)
	assert.Equal(t, "internal server error", errResp.Message)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newMemoryServer(t)

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/healthz", "").StatusCode)

	do(t, http.MethodGet, srv.URL+"/api/products/all", "")
	metrics := do(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, metrics.StatusCode)
	assert.Contains(t, readBody(t, metrics), "/api/products/all")
}

func TestHealthUnavailable(t *testing.T) {
	r := chi.NewRouter()
	NewRouter(r, logger.Nop{}).Init(failingUC{}, RouterOptions{
		DefaultPerPage: 10,
		Health:         func(*http.Request) error { return errors.New("db down") },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
