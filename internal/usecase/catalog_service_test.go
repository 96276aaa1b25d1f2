package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerylens/backend/internal/domain"
)

func builtinFallback() []domain.Store {
	return []domain.Store{
		testStore("IGA", "IGA Extra Plateau", 45.5236, -73.5670),
		testStore("Maxi", "Maxi", 45.5430, -73.5690),
	}
}

func TestNewCatalogService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := NewCatalogService(NewMockCacheRepository(), nil, nil, CatalogServiceConfig{})
		if svc.cacheTTL != 6*time.Hour {
			t.Errorf("cacheTTL = %v, want 6h (default)", svc.cacheTTL)
		}
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		svc := NewCatalogService(NewMockCacheRepository(), nil, nil, CatalogServiceConfig{CacheTTL: time.Minute})
		if svc.cacheTTL != time.Minute {
			t.Errorf("cacheTTL = %v, want 1m", svc.cacheTTL)
		}
	})
}

func TestCatalogService_Stores(t *testing.T) {
	ctx := context.Background()

	t.Run("returns cached catalog without calling the client", func(t *testing.T) {
		cache := NewMockCacheRepository()
		raw, err := json.Marshal(testCatalog())
		require.NoError(t, err)
		cache.data[catalogCacheKey] = raw
		client := &MockCatalogClient{}

		stores, err := NewCatalogService(cache, client, builtinFallback(), CatalogServiceConfig{}).Stores(ctx)

		require.NoError(t, err)
		assert.Len(t, stores, len(testCatalog()))
		assert.Zero(t, client.calls)
	})

	t.Run("fetches and caches the remote catalog", func(t *testing.T) {
		cache := NewMockCacheRepository()
		client := &MockCatalogClient{stores: testCatalog()}
		svc := NewCatalogService(cache, client, builtinFallback(), CatalogServiceConfig{})

		stores, err := svc.Stores(ctx)
		require.NoError(t, err)
		assert.Len(t, stores, len(testCatalog()))
		assert.True(t, cache.has(catalogCacheKey))

		_, err = svc.Stores(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("falls back when the remote catalog fails", func(t *testing.T) {
		cache := NewMockCacheRepository()
		client := &MockCatalogClient{err: domain.ErrCatalogUnavailable}

		stores, err := NewCatalogService(cache, client, builtinFallback(), CatalogServiceConfig{}).Stores(ctx)

		require.NoError(t, err)
		assert.Equal(t, builtinFallback(), stores)
		assert.False(t, cache.has(catalogCacheKey))
	})

	t.Run("falls back when the remote catalog is empty", func(t *testing.T) {
		client := &MockCatalogClient{stores: []domain.Store{}}

		stores, err := NewCatalogService(NewMockCacheRepository(), client, builtinFallback(), CatalogServiceConfig{}).Stores(ctx)

		require.NoError(t, err)
		assert.Len(t, stores, 2)
	})

	t.Run("uses the built-in catalog without a client", func(t *testing.T) {
		stores, err := NewCatalogService(nil, nil, builtinFallback(), CatalogServiceConfig{}).Stores(ctx)

		require.NoError(t, err)
		assert.Len(t, stores, 2)
	})

	t.Run("fallback is returned as a copy", func(t *testing.T) {
		fallback := builtinFallback()
		svc := NewCatalogService(nil, nil, fallback, CatalogServiceConfig{})

		stores, err := svc.Stores(ctx)
		require.NoError(t, err)
		stores[0].Code = "changed"

		assert.Equal(t, "IGA", fallback[0].Code)
	})

	t.Run("cache errors do not fail the request", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = domain.ErrCacheUnavailable
		cache.setError = domain.ErrCacheUnavailable
		client := &MockCatalogClient{stores: testCatalog()}

		stores, err := NewCatalogService(cache, client, builtinFallback(), CatalogServiceConfig{}).Stores(ctx)

		require.NoError(t, err)
		assert.Len(t, stores, len(testCatalog()))
		assert.Equal(t, 1, cache.setCalls)
	})

	t.Run("corrupt cache entry is ignored", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data[catalogCacheKey] = []byte("not json")
		client := &MockCatalogClient{stores: testCatalog()}

		_, err := NewCatalogService(cache, client, builtinFallback(), CatalogServiceConfig{}).Stores(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("cancelled context is returned", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		client := &MockCatalogClient{stores: testCatalog()}

		_, err := NewCatalogService(NewMockCacheRepository(), client, builtinFallback(), CatalogServiceConfig{}).Stores(cancelled)

		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestCatalogService_Canonicalizer(t *testing.T) {
	client := &MockCatalogClient{stores: testCatalog()}
	svc := NewCatalogService(NewMockCacheRepository(), client, builtinFallback(), CatalogServiceConfig{})

	canon, err := svc.Canonicalizer(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "SuperC", canon.Canonicalize("super c"))
	assert.True(t, canon.Known("metro plus"))
}
