package converter

import "time"

type ProductRedisModel struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Price        string     `json:"price"`
	Quantity     int32      `json:"quantity"`
	CreatedDate  time.Time  `json:"created_date"`
	ModifiedDate *time.Time `json:"modified_date"`
}
