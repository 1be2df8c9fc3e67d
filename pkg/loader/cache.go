// pkg/loader/cache.go
package loader

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/halilanisa/ecommerce-insights/pkg/model"
)

// Cache memoizes loaded datasets by source key. It is owned by its caller
// and invalidated explicitly; there is no process-global cache. Cached
// datasets are immutable by contract: the pipeline only reads them.
type Cache struct {
	mu       sync.Mutex
	datasets map[string]*model.Dataset
	logger   *zap.Logger
}

// NewCache creates an empty cache.
func NewCache(logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Cache{
		datasets: make(map[string]*model.Dataset),
		logger:   logger.Named("loader-cache"),
	}, nil
}

// Get returns the dataset for the source, loading it on first use. Loads
// happen under the cache lock so concurrent callers of the same source
// trigger a single load.
func (c *Cache) Get(ctx context.Context, src Source) (*model.Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := src.Key()
	if ds, ok := c.datasets[key]; ok {
		return ds, nil
	}

	c.logger.Info("Loading dataset", zap.String("source", key))
	ds, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.datasets[key] = ds
	return ds, nil
}

// Invalidate drops the cached dataset for a source key. The next Get
// reloads it.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.datasets, key)
}

// InvalidateAll drops every cached dataset.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets = make(map[string]*model.Dataset)
}
