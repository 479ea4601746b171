package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DRSN-tech/product-api/internal/domain"
	"github.com/DRSN-tech/product-api/internal/repository/redis/converter"
	"github.com/DRSN-tech/product-api/pkg/clients"
	"github.com/DRSN-tech/product-api/pkg/e"
	"github.com/DRSN-tech/product-api/pkg/logger"
	"github.com/DRSN-tech/product-api/pkg/metrics"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const cacheDriver = "redis"

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.ProductConverter
	ttl    time.Duration
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.ProductConverter,
	ttl time.Duration, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		ttl:    ttl,
		logger: logger,
	}
}

// GetProduct возвращает закэшированный товар или (nil, nil) при промахе.
// Поврежденная запись удаляется и считается промахом.
func (c *CacheRepo) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	key := c.productKey(id)

	data, err := c.client.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			metrics.CacheMisses.WithLabelValues(cacheDriver).Inc()
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	product, err := c.unmarshalProductFromCache(data)
	if err != nil || product.ID != id {
		c.logger.Warnf("Dropping malformed cache entry %s: %v", key, err)
		if err := c.client.Client.Del(ctx, key).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		metrics.CacheMisses.WithLabelValues(cacheDriver).Inc()
		return nil, nil
	}

	metrics.CacheHits.WithLabelValues(cacheDriver).Inc()
	return product, nil
}

// SetProduct кэширует товар с заданным TTL.
func (c *CacheRepo) SetProduct(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(c.conv.ToRedisModel(product))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, c.productKey(product.ID), data, c.ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteProduct удаляет товар из кэша по ID
func (c *CacheRepo) DeleteProduct(ctx context.Context, id int64) error {
	if err := c.client.Client.Del(ctx, c.productKey(id)).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (c *CacheRepo) unmarshalProductFromCache(data []byte) (*domain.Product, error) {
	var model converter.ProductRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}

	return c.conv.ToEntity(&model)
}

// productKey возвращает Redis-ключ для одного товара
func (c *CacheRepo) productKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

// NopCacheRepo используется, когда кэш выключен.
type NopCacheRepo struct{}

func (NopCacheRepo) GetProduct(context.Context, int64) (*domain.Product, error) { return nil, nil }
func (NopCacheRepo) SetProduct(context.Context, *domain.Product) error          { return nil }
func (NopCacheRepo) DeleteProduct(context.Context, int64) error                 { return nil }
