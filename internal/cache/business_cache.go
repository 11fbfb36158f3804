package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/shareit-app/referral-service/internal/models"
)

// BusinessCache keeps the read-only catalog in memory. The catalog is seeded
// once at boot, so entries never expire; singleflight collapses concurrent
// fills for the same id.
type BusinessCache struct {
	fetch func(ctx context.Context, id string) (*models.Business, error)
	group singleflight.Group

	mu    sync.RWMutex
	store map[string]*models.Business
}

func NewBusinessCache(fetch func(ctx context.Context, id string) (*models.Business, error)) *BusinessCache {
	return &BusinessCache{
		fetch: fetch,
		store: make(map[string]*models.Business),
	}
}

func (c *BusinessCache) Get(ctx context.Context, id string) (*models.Business, error) {
	c.mu.RLock()
	b, ok := c.store[id]
	c.mu.RUnlock()
	if ok {
		return b, nil
	}

	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		b, err := c.fetch(ctx, id)
		if err != nil {
			return nil, err
		}
		if b != nil {
			c.mu.Lock()
			c.store[id] = b
			c.mu.Unlock()
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Business), nil
}
