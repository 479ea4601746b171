package pgdb

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/DRSN-tech/product-api/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/product-api/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	columns = []string{"id", "name", "description", "price", "quantity", "created_date", "modified_date"}
	created = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	changed = time.Date(2026, 10, 19, 13, 0, 0, 0, time.UTC)
	price   = decimal.RequireFromString("9.99")
)

func newRepo(t *testing.T, now time.Time) (*ProductRepo, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := NewProductRepo(mock, converter.NewProductConverter())
	repo.now = func() time.Time { return now }

	return repo, mock
}

func TestAddReturnsInsertedRow(t *testing.T) {
	repo, mock := newRepo(t, created)
	desc := "blue"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products (name, description, price, quantity, created_date)")).
		WithArgs("Widget", &desc, price, int32(5), created).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(1), "Widget", &desc, price, int32(5), created, (*time.Time)(nil)))

	got, err := repo.Add(context.Background(), domain.NewProduct("Widget", &desc, price, 5))
	require.NoError(t, err)

	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "blue", *got.Description)
	assert.True(t, price.Equal(got.Price))
	assert.Equal(t, created, got.CreatedDate)
	assert.Nil(t, got.ModifiedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFind(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT ` + productColumns + ` FROM products WHERE id = $1`)

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepo(t, created)
		mock.ExpectQuery(query).
			WithArgs(int64(7)).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(7), "Widget", (*string)(nil), price, int32(5), created, &changed))

		got, err := repo.Find(context.Background(), 7)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(7), got.ID)
		require.NotNil(t, got.ModifiedDate)
		assert.Equal(t, changed, *got.ModifiedDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is nil", func(t *testing.T) {
		repo, mock := newRepo(t, created)
		mock.ExpectQuery(query).WithArgs(int64(7)).WillReturnError(pgx.ErrNoRows)

		got, err := repo.Find(context.Background(), 7)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store error", func(t *testing.T) {
		repo, mock := newRepo(t, created)
		errConn := errors.New("connection refused")
		mock.ExpectQuery(query).WithArgs(int64(7)).WillReturnError(errConn)

		_, err := repo.Find(context.Background(), 7)
		assert.ErrorIs(t, err, errConn)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetPagePassesOffsetAndLimit(t *testing.T) {
	repo, mock := newRepo(t, created)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
		WithArgs(20, 10).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(int64(9), "b", (*string)(nil), price, int32(1), created, (*time.Time)(nil)).
			AddRow(int64(8), "a", (*string)(nil), price, int32(1), created, (*time.Time)(nil)))

	got, err := repo.GetPage(context.Background(), 3, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(9), got[0].ID)
	assert.Equal(t, int64(8), got[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllEmptyIsNotNil(t *testing.T) {
	repo, mock := newRepo(t, created)

	mock.ExpectQuery(regexp.QuoteMeta("FROM products ORDER BY id DESC")).
		WillReturnRows(pgxmock.NewRows(columns))

	got, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	query := regexp.QuoteMeta("UPDATE products")
	product := &domain.Product{ID: 7, Name: "Widget2", Price: price, Quantity: 1, CreatedDate: created}

	t.Run("sets modified date", func(t *testing.T) {
		repo, mock := newRepo(t, changed)
		mock.ExpectQuery(query).
			WithArgs("Widget2", (*string)(nil), price, int32(1), changed, int64(7)).
			WillReturnRows(pgxmock.NewRows(columns).
				AddRow(int64(7), "Widget2", (*string)(nil), price, int32(1), created, &changed))

		got, err := repo.Update(context.Background(), product)
		require.NoError(t, err)
		assert.Equal(t, "Widget2", got.Name)
		require.NotNil(t, got.ModifiedDate)
		assert.Equal(t, changed, *got.ModifiedDate)
		assert.Equal(t, created, got.CreatedDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("vanished row", func(t *testing.T) {
		repo, mock := newRepo(t, changed)
		mock.ExpectQuery(query).
			WithArgs("Widget2", (*string)(nil), price, int32(1), changed, int64(7)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Update(context.Background(), product)
		assert.ErrorIs(t, err, e.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRemove(t *testing.T) {
	query := regexp.QuoteMeta("DELETE FROM products WHERE id = $1")

	tests := []struct {
		name    string
		deleted int64
		wantErr error
	}{
		{name: "deleted", deleted: 1},
		{name: "missing", deleted: 0, wantErr: e.ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepo(t, created)
			mock.ExpectExec(query).
				WithArgs(int64(7)).
				WillReturnResult(pgxmock.NewResult("DELETE", tt.deleted))

			err := repo.Remove(context.Background(), 7)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
