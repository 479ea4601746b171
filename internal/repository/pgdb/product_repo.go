package pgdb

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/DRSN-tech/product-api/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-api/pkg/e"
	"github.com/DRSN-tech/product-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jimlawless/whereami"
)

const productColumns = `id, name, description, price, quantity, created_date, modified_date`

// DBTX методы пула pgxpool.Pool (и pgx.Tx), которыми пользуется репозиторий.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool DBTX
	conv converter.ProductConverter
	now  func() time.Time
}

func NewProductRepo(pool DBTX, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
		now:  dbNow,
	}
}

// Add вставляет новую строку и возвращает товар с присвоенным ID.
func (p *ProductRepo) Add(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	defer metrics.ObserveDBQuery("insert", time.Now())

	model := p.conv.ToModel(product)
	model.CreatedDate = p.now()

	query := `
		INSERT INTO products (name, description, price, quantity, created_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + productColumns

	res, err := scanProduct(p.pool.QueryRow(ctx, query,
		model.Name, model.Description, model.Price, model.Quantity, model.CreatedDate,
	))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(res), nil
}

// Find возвращает товар по ID или (nil, nil), если его нет.
func (p *ProductRepo) Find(ctx context.Context, id int64) (*domain.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	res, err := scanProduct(p.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(res), nil
}

// GetPage возвращает страницу товаров по убыванию ID.
func (p *ProductRepo) GetPage(ctx context.Context, page, perPage int) ([]domain.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY id DESC
		OFFSET $1
		LIMIT $2
	`

	skip := (page - 1) * perPage
	return p.queryProducts(ctx, query, skip, perPage)
}

// GetAll возвращает все товары по убыванию ID.
func (p *ProductRepo) GetAll(ctx context.Context) ([]domain.Product, error) {
	defer metrics.ObserveDBQuery("select", time.Now())

	query := `SELECT ` + productColumns + ` FROM products ORDER BY id DESC`

	return p.queryProducts(ctx, query)
}

// Update перезаписывает изменяемые поля и дату изменения по ID.
func (p *ProductRepo) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	defer metrics.ObserveDBQuery("update", time.Now())

	model := p.conv.ToModel(product)
	modified := p.now()

	query := `
		UPDATE products
		SET name = $1,
			description = $2,
			price = $3,
			quantity = $4,
			modified_date = $5
		WHERE id = $6
		RETURNING ` + productColumns

	res, err := scanProduct(p.pool.QueryRow(ctx, query,
		model.Name, model.Description, model.Price, model.Quantity, modified, model.ID,
	))
	if err != nil {
		// Строка исчезла между Find и Update
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToEntity(res), nil
}

// Remove безвозвратно удаляет товар по ID.
func (p *ProductRepo) Remove(ctx context.Context, id int64) error {
	defer metrics.ObserveDBQuery("delete", time.Now())

	result, err := p.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

func (p *ProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		model, err := scanProduct(rows)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

func scanProduct(row pgx.Row) (*converter.ProductModel, error) {
	var model converter.ProductModel
	if err := row.Scan(
		&model.ID, &model.Name, &model.Description, &model.Price,
		&model.Quantity, &model.CreatedDate, &model.ModifiedDate,
	); err != nil {
		return nil, err
	}

	return &model, nil
}

// dbNow возвращает текущее время с точностью timestamptz.
func dbNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
