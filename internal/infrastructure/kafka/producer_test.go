package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/DRSN-tech/product-api/internal/usecase"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMessageCreated(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	product := &domain.Product{
		ID:          42,
		Name:        "Widget",
		Price:       decimal.RequireFromString("12.5"),
		Quantity:    3,
		CreatedDate: created,
	}
	event := usecase.NewProductEvent(usecase.ProductCreated, product.ID, product)

	msg, err := toMessage(event)
	require.NoError(t, err)

	assert.Equal(t, "42", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "product.created", string(msg.Headers[0].Value))

	var payload EventPayload
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, event.EventID, payload.EventID)
	assert.Equal(t, "product.created", payload.Type)
	require.NotNil(t, payload.Product)
	assert.Equal(t, "12.50", payload.Product.Price)
	assert.Equal(t, "Widget", payload.Product.Name)
	assert.True(t, created.Equal(payload.Product.CreatedDate))
}

func TestToMessageDeletedHasNoProduct(t *testing.T) {
	event := usecase.NewProductEvent(usecase.ProductDeleted, 7, nil)

	msg, err := toMessage(event)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &raw))
	assert.NotContains(t, raw, "product")
	assert.EqualValues(t, 7, raw["productId"])
}

func TestNopProducer(t *testing.T) {
	var p usecase.EventPublisher = NopProducer{}
	assert.NoError(t, p.Publish(context.Background(), usecase.NewProductEvent(usecase.ProductDeleted, 1, nil)))
}
