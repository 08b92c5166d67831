package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/laker77/PointsStoreService-main/internal/infrastructure/observability"
	"github.com/laker77/PointsStoreService-main/internal/models"
	"github.com/laker77/PointsStoreService-main/internal/repository"
)

// DefaultTTL is the catalog freshness window.
const DefaultTTL = 300 * time.Second

// Cache holds a time-bounded snapshot of the product catalog. The mutex makes
// refresh single-writer: concurrent callers during a refresh wait and then
// serve the new snapshot instead of fetching twice.
type Cache struct {
	source repository.ProductRepository
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	entries   []models.Product
	fetchedAt time.Time
}

func NewCache(source repository.ProductRepository, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetProducts serves the cached snapshot while it is fresh. On expiry the
// snapshot is rebuilt wholesale; a failed refresh returns an empty catalog
// rather than stale entries, and the old snapshot is kept only so the next
// call retries. Returned slices are copies.
func (c *Cache) GetProducts(ctx context.Context) []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return copyProducts(c.entries)
	}

	products, err := c.source.List(ctx)
	if err != nil {
		observability.CacheRefreshes.WithLabelValues("error").Inc()
		slog.Error("catalog refresh failed", "error", err)
		return []models.Product{}
	}

	observability.CacheRefreshes.WithLabelValues("ok").Inc()
	c.entries = products
	c.fetchedAt = c.now()
	slog.Info("catalog refreshed", "products", len(products))
	return copyProducts(c.entries)
}

func copyProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}
