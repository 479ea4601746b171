package usecase

import (
	"context"
	"math"
	"time"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/DRSN-tech/product-api/pkg/e"
	"github.com/DRSN-tech/product-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const cacheWriteTimeout = 500 * time.Millisecond

// ProductUseCase реализует бизнес-логику управления товарами.
// Чтение по ID, обновление и удаление сначала выполняют Find и
// завершаются ErrProductNotFound до любой изменяющей операции.
type ProductUseCase struct {
	productRepo ProductRepository
	cacheRepo   CacheRepository
	publisher   EventPublisher
	logger      logger.Logger
	maxPerPage  int
}

func NewProductUC(
	productRepo ProductRepository,
	cacheRepo CacheRepository,
	publisher EventPublisher,
	logger logger.Logger,
	maxPerPage int,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		cacheRepo:   cacheRepo,
		publisher:   publisher,
		logger:      logger,
		maxPerPage:  maxPerPage,
	}
}

// GetProducts возвращает страницу товаров, новые первыми.
func (p *ProductUseCase) GetProducts(ctx context.Context, req *GetPageReq) ([]domain.Product, error) {
	const op = "ProductUseCase.GetProducts"

	if req.Page < 1 || req.PerPage < 1 {
		return nil, e.Wrap(op, e.ErrInvalidPagination)
	}

	perPage := req.PerPage
	if p.maxPerPage > 0 && perPage > p.maxPerPage {
		perPage = p.maxPerPage
	}

	// (page-1)*perPage не помещается в int: страница заведомо за концом списка
	if req.Page-1 > math.MaxInt/perPage {
		return []domain.Product{}, nil
	}

	products, err := p.productRepo.GetPage(ctx, req.Page, perPage)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetAllProducts возвращает все товары.
func (p *ProductUseCase) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductUseCase.GetAllProducts"

	products, err := p.productRepo.GetAll(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return products, nil
}

// GetProduct возвращает товар по ID, сначала из кэша, затем из хранилища.
func (p *ProductUseCase) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.GetProduct"

	cached, err := p.cacheRepo.GetProduct(ctx, id)
	if err != nil {
		p.logger.Warnf("Failed to read product %d from cache: %v", id, e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := p.find(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.fillCache(ctx, product)

	return product, nil
}

// CreateProduct валидирует запрос и сохраняет новый товар.
func (p *ProductUseCase) CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.CreateProduct"

	if err := validateCreate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.productRepo.Add(ctx, domain.NewProduct(*req.Name, req.Description, *req.Price, *req.Quantity))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.publish(ctx, NewProductEvent(ProductCreated, product.ID, product))

	return product, nil
}

// UpdateProduct перезаписывает все изменяемые поля существующего товара.
func (p *ProductUseCase) UpdateProduct(ctx context.Context, id int64, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.UpdateProduct"

	if err := validateUpdate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := p.find(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product.Overwrite(
		valueOrZero(req.Name),
		req.Description,
		valueOrZero(req.Price),
		valueOrZero(req.Quantity),
	)

	updated, err := p.productRepo.Update(ctx, product)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.invalidate(ctx, id)
	p.publish(ctx, NewProductEvent(ProductUpdated, updated.ID, updated))

	return updated, nil
}

// DeleteProduct безвозвратно удаляет существующий товар.
func (p *ProductUseCase) DeleteProduct(ctx context.Context, id int64) error {
	const op = "ProductUseCase.DeleteProduct"

	if _, err := p.find(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	if err := p.productRepo.Remove(ctx, id); err != nil {
		return e.Wrap(op, err)
	}

	p.invalidate(ctx, id)
	p.publish(ctx, NewProductEvent(ProductDeleted, id, nil))

	return nil
}

// find ищет товар в хранилище и превращает отсутствие в ErrProductNotFound.
func (p *ProductUseCase) find(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := p.productRepo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, e.ErrProductNotFound
	}

	return product, nil
}

// fillCache кладет прочитанный товар в кэш. Между Find и SetProduct товар
// могли изменить или удалить, и их инвалидация уже прошла. Поэтому после
// записи товар перечитывается из хранилища: если он отличается от
// записанного, запись из кэша удаляется. Изменение, закоммиченное после
// повторного чтения, само инвалидирует кэш позже нашей записи.
func (p *ProductUseCase) fillCache(ctx context.Context, product *domain.Product) {
	const op = "ProductUseCase.fillCache"

	cacheCtx, cancel := context.WithTimeout(ctx, cacheWriteTimeout)
	defer cancel()

	if err := p.cacheRepo.SetProduct(cacheCtx, product); err != nil {
		p.logger.Warnf("Failed to cache product %d: %v", product.ID, e.Wrap(op, err))
		return
	}

	current, err := p.productRepo.Find(ctx, product.ID)
	if err == nil && current.SameState(product) {
		return
	}
	if err != nil {
		p.logger.Warnf("Failed to recheck cached product %d: %v", product.ID, e.Wrap(op, err))
	}

	p.invalidate(ctx, product.ID)
}

// invalidate удаляет товар из кэша, ошибки только логируются.
func (p *ProductUseCase) invalidate(ctx context.Context, id int64) {
	if err := p.cacheRepo.DeleteProduct(ctx, id); err != nil {
		p.logger.Warnf("Failed to delete product %d from cache: %v", id, err)
	}
}

// publish отправляет событие, ошибки только логируются.
func (p *ProductUseCase) publish(ctx context.Context, event *ProductEvent) {
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Warnf("Failed to publish %s for product %d: %v", event.Type, event.ProductID, err)
	}
}

func valueOrZero[T string | int32 | decimal.Decimal](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
