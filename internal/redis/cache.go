package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"restaurant-manager/internal/models"
)

const (
	tablesKey = "tables:all"
	tableTTL  = 5 * time.Minute
)

// Cache is a read-through cache for the table list, the hottest read path
// (floor plans poll it). Writers invalidate; a miss just falls through to
// the store.
type Cache struct {
	Client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{Client: client}
}

func (c *Cache) GetTables(ctx context.Context) ([]*models.Table, bool) {
	data, err := c.Client.Get(ctx, tablesKey).Result()
	if err != nil {
		return nil, false
	}

	var tables []*models.Table
	if err := json.Unmarshal([]byte(data), &tables); err != nil {
		return nil, false
	}
	return tables, true
}

func (c *Cache) SetTables(ctx context.Context, tables []*models.Table) {
	data, err := json.Marshal(tables)
	if err != nil {
		return
	}
	c.Client.Set(ctx, tablesKey, data, tableTTL)
}

func (c *Cache) InvalidateTables(ctx context.Context) {
	c.Client.Del(ctx, tablesKey)
}
