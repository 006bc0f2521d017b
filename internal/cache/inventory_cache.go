package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Wadangzz/Dessert-Gemini/internal/domain"
	"github.com/Wadangzz/Dessert-Gemini/internal/events"
	"github.com/Wadangzz/Dessert-Gemini/internal/repository"
)

const snapshotTTL = 5 * time.Minute

// InventoryCache serves per-floor stock snapshots from Redis, falling back to
// the repository on miss. Stock mutations invalidate the cached floors.
type InventoryCache struct {
	client *redis.Client
	repo   repository.InventoryRepository
	logger *zap.Logger
}

// NewInventoryCache constructs the cache.
func NewInventoryCache(client *redis.Client, repo repository.InventoryRepository, logger *zap.Logger) *InventoryCache {
	return &InventoryCache{client: client, repo: repo, logger: logger}
}

// SubscribeTo registers cache invalidation on stock changes.
func (c *InventoryCache) SubscribeTo(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventStockChanged, func(ctx context.Context, event events.Event) error {
		payload, ok := event.Payload.(events.StockChangedPayload)
		if !ok {
			c.InvalidateAll(ctx)
			return nil
		}
		c.Invalidate(ctx, payload.Floor)
		return nil
	})
}

// Floor returns the snapshot for one floor, reading through to Postgres.
func (c *InventoryCache) Floor(ctx context.Context, floor domain.Floor) ([]domain.InventoryItem, error) {
	key := floorKey(floor)

	if c.client != nil {
		raw, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			var items []domain.InventoryItem
			if jsonErr := json.Unmarshal(raw, &items); jsonErr == nil {
				return items, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn("inventory cache read failed", zap.Error(err))
		}
	}

	items, err := c.repo.ListByFloor(ctx, floor)
	if err != nil {
		return nil, err
	}

	if c.client != nil {
		if raw, err := json.Marshal(items); err == nil {
			if err := c.client.Set(ctx, key, raw, snapshotTTL).Err(); err != nil {
				c.logger.Warn("inventory cache write failed", zap.Error(err))
			}
		}
	}
	return items, nil
}

// Invalidate drops the snapshot for one floor.
func (c *InventoryCache) Invalidate(ctx context.Context, floor domain.Floor) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, floorKey(floor)).Err(); err != nil {
		c.logger.Warn("inventory cache invalidation failed", zap.Error(err))
	}
}

// InvalidateAll drops every floor snapshot.
func (c *InventoryCache) InvalidateAll(ctx context.Context) {
	for _, floor := range domain.Floors() {
		c.Invalidate(ctx, floor)
	}
}

func floorKey(floor domain.Floor) string {
	return fmt.Sprintf("inventory:floor:%d", int(floor))
}
