package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/DRSN-tech/product-api/pkg/e"
)

// ProductRepo хранит товары в памяти процесса.
// Используется драйвером STORE_DRIVER=memory и в тестах.
type ProductRepo struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]domain.Product
	now      func() time.Time
}

func NewProductRepo() *ProductRepo {
	return NewProductRepoWithClock(func() time.Time {
		return time.Now().UTC().Truncate(time.Microsecond)
	})
}

func NewProductRepoWithClock(now func() time.Time) *ProductRepo {
	return &ProductRepo{
		nextID:   1,
		products: make(map[int64]domain.Product),
		now:      now,
	}
}

func (r *ProductRepo) Add(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clone(*product)
	stored.ID = r.nextID
	stored.CreatedDate = r.now()
	stored.ModifiedDate = nil
	r.nextID++

	r.products[stored.ID] = stored

	res := clone(stored)
	return &res, nil
}

func (r *ProductRepo) Find(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}

	res := clone(product)
	return &res, nil
}

// GetPage применяет skip/take к товарам, отсортированным по убыванию ID.
// Отрицательный skip трактуется как 0, неположительный perPage дает пустую страницу.
func (r *ProductRepo) GetPage(_ context.Context, page, perPage int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.sortedLocked()

	if perPage <= 0 {
		return []domain.Product{}, nil
	}
	// Страница за пределами int тоже за концом списка
	if page > 1 && page-1 > (math.MaxInt-perPage)/perPage {
		return []domain.Product{}, nil
	}

	skip := max((page-1)*perPage, 0)
	if skip >= len(items) {
		return []domain.Product{}, nil
	}

	end := min(skip+perPage, len(items))
	return items[skip:end], nil
}

func (r *ProductRepo) GetAll(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(), nil
}

func (r *ProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return nil, e.ErrProductNotFound
	}

	modified := r.now()
	stored.Overwrite(product.Name, product.Description, product.Price, product.Quantity)
	stored.ModifiedDate = &modified
	stored = clone(stored)
	r.products[stored.ID] = stored

	res := clone(stored)
	return &res, nil
}

func (r *ProductRepo) Remove(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(r.products, id)

	return nil
}

func (r *ProductRepo) sortedLocked() []domain.Product {
	items := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		items = append(items, clone(p))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID > items[j].ID
	})

	return items
}

// clone копирует товар вместе с указателями, чтобы вызывающий код не менял хранилище.
func clone(p domain.Product) domain.Product {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	if p.ModifiedDate != nil {
		m := *p.ModifiedDate
		p.ModifiedDate = &m
	}
	return p
}
