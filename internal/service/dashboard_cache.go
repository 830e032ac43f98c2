package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DashboardCache guarda dashboards armados en Redis por un TTL corto.
// Es opcional: un cache nil (sin Redis configurado) es un no-op seguro.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &DashboardCache{
		client: client,
		ttl:    ttl,
		prefix: "dashboard:",
	}
}

func (c *DashboardCache) Get(ctx context.Context, userID string) (DashboardData, bool) {
	if c == nil || c.client == nil {
		return DashboardData{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	raw, err := c.client.Get(ctx, c.prefix+userID).Bytes()
	if err != nil {
		return DashboardData{}, false
	}
	var data DashboardData
	if err := json.Unmarshal(raw, &data); err != nil {
		return DashboardData{}, false
	}
	return data, true
}

func (c *DashboardCache) Set(ctx context.Context, userID string, data DashboardData) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Set(ctx, c.prefix+userID, raw, c.ttl).Err()
}

// Invalidate borra el dashboard cacheado de un residente; se llama al crear
// una entrada nueva.
func (c *DashboardCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Del(ctx, c.prefix+userID).Err()
}
