package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ignatzorin/cropmarket-backend/internal/domain/entity"
	"github.com/ignatzorin/cropmarket-backend/internal/domain/repository"
	"github.com/ignatzorin/cropmarket-backend/internal/logger"
)

// Cache — хранилище ответов оракула. Found=false означает промах.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cached кэширует ответы оракула. Ошибки кэша не мешают запросу к оракулу.
type Cached struct {
	next  repository.PriceOracle
	cache Cache
	ttl   time.Duration
}

func NewCached(next repository.PriceOracle, cache Cache, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Cached{next: next, cache: cache, ttl: ttl}
}

func (c *Cached) RecommendPrice(ctx context.Context, q entity.PriceQuery) (*float64, error) {
	key := fmt.Sprintf("oracle:recommend:%s:%s:%s:%g",
		normalizeKey(q.Crop), normalizeKey(q.Quality), normalizeKey(q.District), q.Quantity)

	var cached *float64
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	price, err := c.next.RecommendPrice(ctx, q)
	if err != nil {
		return nil, err
	}
	if price != nil {
		c.store(ctx, key, price)
	}
	return price, nil
}

func (c *Cached) ForecastPrice(ctx context.Context, crop, location string, horizonDays int) (*entity.PriceForecast, error) {
	key := fmt.Sprintf("oracle:forecast:%s:%s:%d", normalizeKey(crop), normalizeKey(location), horizonDays)

	var cached *entity.PriceForecast
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	forecast, err := c.next.ForecastPrice(ctx, crop, location, horizonDays)
	if err != nil {
		return nil, err
	}
	if forecast != nil {
		c.store(ctx, key, forecast)
	}
	return forecast, nil
}

func (c *Cached) load(ctx context.Context, key string, dest any) bool {
	raw, found, err := c.cache.Get(ctx, key)
	if err != nil {
		logCacheError(key, err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logCacheError(key, err)
		return false
	}
	return true
}

func (c *Cached) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		logCacheError(key, err)
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		logCacheError(key, err)
	}
}

func logCacheError(key string, err error) {
	if logger.Log != nil {
		logger.Log.WithField("key", key).WithError(err).Warn("кэш цен недоступен")
	}
}

func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
