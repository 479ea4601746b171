package kafka

import (
	"time"

	"github.com/DRSN-tech/product-api/internal/usecase"
)

// EventPayload описывает JSON-тело сообщения в топике событий.
type EventPayload struct {
	EventID    string          `json:"eventId"`
	Type       string          `json:"type"`
	ProductID  int64           `json:"productId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Product    *ProductPayload `json:"product,omitempty"`
}

type ProductPayload struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	Price        string     `json:"price"`
	Quantity     int32      `json:"quantity"`
	CreatedDate  time.Time  `json:"createdDate"`
	ModifiedDate *time.Time `json:"modifiedDate"`
}

func toEventPayload(event *usecase.ProductEvent) *EventPayload {
	payload := &EventPayload{
		EventID:    event.EventID,
		Type:       string(event.Type),
		ProductID:  event.ProductID,
		OccurredAt: event.OccurredAt,
	}

	if p := event.Product; p != nil {
		payload.Product = &ProductPayload{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Price:        p.Price.StringFixed(2),
			Quantity:     p.Quantity,
			CreatedDate:  p.CreatedDate,
			ModifiedDate: p.ModifiedDate,
		}
	}

	return payload
}
