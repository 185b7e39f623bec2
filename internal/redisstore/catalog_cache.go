package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"voltgrid/internal/models"
	"voltgrid/internal/pricing"
)

const catalogKey = "pricing:catalog"

type catalogSnapshot struct {
	Rules  []models.PricingRule  `json:"rules"`
	Groups []models.AccountGroup `json:"groups"`
}

// CatalogCache stores whole rate-catalog snapshots in redis so that ingest
// and session billing do not hit Postgres on every resolution.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache returns a redis-backed snapshot cache.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get returns the cached snapshot, or (nil, nil) on a miss.
func (c *CatalogCache) Get(ctx context.Context) (*pricing.Catalog, error) {
	raw, err := c.client.Get(ctx, catalogKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap catalogSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, err
	}
	return &pricing.Catalog{Rules: snap.Rules, Groups: snap.Groups}, nil
}

// Set caches a snapshot with the configured TTL.
func (c *CatalogCache) Set(ctx context.Context, cat pricing.Catalog) error {
	data, err := json.Marshal(catalogSnapshot{Rules: cat.Rules, Groups: cat.Groups})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey, data, c.ttl).Err()
}

// Invalidate drops the cached snapshot.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}
