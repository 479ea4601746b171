package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DRSN-tech/product-api/internal/usecase"
	"github.com/DRSN-tech/product-api/pkg/e"
	"github.com/DRSN-tech/product-api/pkg/logger"
)

const productsPath = "/api/products"

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
	defaultPerPage int
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger, defaultPerPage int) *ProductHandler {
	return &ProductHandler{
		productUsecase: productUsecase,
		logger:         logger,
		defaultPerPage: defaultPerPage,
	}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает страницу товаров, новые первыми
//	@Tags			products
//	@Produce		json
//	@Param			page	query		int	false	"Номер страницы"	default(1)
//	@Param			perPage	query		int	false	"Размер страницы"	default(10)
//	@Success		200		{array}		ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Некорректная пагинация"
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := parsePagination(r, p.defaultPerPage)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	products, err := p.productUsecase.GetProducts(r.Context(), req)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// listAllProducts
//
//	@Summary		Все товары
//	@Description	Возвращает все товары без пагинации
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}	ProductResponse
//	@Router			/products/all [get]
func (p *ProductHandler) listAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.GetAllProducts(r.Context())
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toArrProductResponse(products))
}

// getProduct
//
//	@Summary	Товар по ID
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	404	"Товар не найден"
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	product, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создает товар. Адрес нового ресурса возвращается в заголовке Location
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductRequest	true	"Товар"
//	@Success		201		{object}	ProductResponse
//	@Header			201		{string}	Location	"/api/products/{id}"
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	body, err := decodeProductRequest(w, r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	product, err := p.productUsecase.CreateProduct(r.Context(),
		usecase.NewCreateProductReq(body.Name, body.Description, body.Price, body.Quantity))
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	p.logger.Infof("Product %d created", product.ID)

	w.Header().Set("Location", fmt.Sprintf("%s/%d", productsPath, product.ID))
	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Перезаписывает все изменяемые поля товара
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"ID товара"
//	@Param			product	body		ProductRequest	true	"Товар"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		404		"Товар не найден"
//	@Router			/products/{id} [put]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	body, err := decodeProductRequest(w, r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	product, err := p.productUsecase.UpdateProduct(r.Context(), id,
		usecase.NewUpdateProductReq(body.Name, body.Description, body.Price, body.Quantity))
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	p.logger.Infof("Product %d updated", product.ID)

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// deleteProduct
//
//	@Summary	Удаление товара
//	@Tags		products
//	@Param		id	path	int	true	"ID товара"
//	@Success	204	"Товар удален"
//	@Failure	404	"Товар не найден"
//	@Router		/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		p.writeError(w, r, err)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.writeError(w, r, err)
		return
	}

	p.logger.Infof("Product %d deleted", id)

	w.WriteHeader(http.StatusNoContent)
}

// writeError логирует ошибку с уровнем по ее классу и пишет ответ.
func (p *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)

	switch {
	case code >= http.StatusInternalServerError:
		p.logger.Errorf(err, "%s %s", r.Method, r.URL.Path)
	case errors.Is(err, e.ErrProductNotFound):
		p.logger.Debugf("%d %s %s", code, r.Method, r.URL.Path)
	default:
		p.logger.Warnf("%d %s %s: %s", code, r.Method, r.URL.Path, err.Error())
	}

	WriteError(w, err)
}
