package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID           int64           `db:"id"`
	Name         string          `db:"name"`
	Description  *string         `db:"description"`
	Price        decimal.Decimal `db:"price"`
	Quantity     int32           `db:"quantity"`
	CreatedDate  time.Time       `db:"created_date"`
	ModifiedDate *time.Time      `db:"modified_date"`
}
