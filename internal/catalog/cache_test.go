package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/laker77/PointsStoreService-main/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducts struct {
	products []models.Product
	err      error
	calls    int
}

func (f *fakeProducts) List(context.Context) ([]models.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func TestCache_GetProducts(t *testing.T) {
	ctx := context.Background()
	catalog := []models.Product{
		{ID: 1, Name: "Кепка", Price: 150, Category: "clothing"},
		{ID: 2, Name: "Брелок", Price: 20, Category: "accessories"},
	}

	t.Run("serves the snapshot without a second read within TTL", func(t *testing.T) {
		source := &fakeProducts{products: catalog}
		cache := NewCache(source, DefaultTTL)

		first := cache.GetProducts(ctx)
		second := cache.GetProducts(ctx)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, source.calls, "a fresh cache read is side-effect-free")
	})

	t.Run("expiry triggers exactly one refresh", func(t *testing.T) {
		source := &fakeProducts{products: catalog}
		cache := NewCache(source, DefaultTTL)

		now := time.Now()
		cache.now = func() time.Time { return now }
		cache.GetProducts(ctx)
		require.Equal(t, 1, source.calls)

		now = now.Add(DefaultTTL + time.Second)
		cache.GetProducts(ctx)
		cache.GetProducts(ctx)
		assert.Equal(t, 2, source.calls)
	})

	t.Run("refresh failure returns empty, not the stale snapshot", func(t *testing.T) {
		source := &fakeProducts{products: catalog}
		cache := NewCache(source, DefaultTTL)

		now := time.Now()
		cache.now = func() time.Time { return now }
		require.Len(t, cache.GetProducts(ctx), 2)

		now = now.Add(DefaultTTL + time.Second)
		source.err = errors.New("sheet unavailable")
		assert.Empty(t, cache.GetProducts(ctx))

		// next call retries the refresh
		source.err = nil
		assert.Len(t, cache.GetProducts(ctx), 2)
		assert.Equal(t, 3, source.calls)
	})

	t.Run("returned slice is a defensive copy", func(t *testing.T) {
		source := &fakeProducts{products: catalog}
		cache := NewCache(source, DefaultTTL)

		got := cache.GetProducts(ctx)
		got[0].Name = "mutated"
		assert.Equal(t, "Кепка", cache.GetProducts(ctx)[0].Name)
	})

	t.Run("total failure on a cold cache yields empty", func(t *testing.T) {
		source := &fakeProducts{err: errors.New("auth failed")}
		cache := NewCache(source, DefaultTTL)
		assert.Empty(t, cache.GetProducts(ctx))
	})
}
