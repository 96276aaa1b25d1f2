package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/grocerylens/backend/internal/domain"
)

const catalogCacheKey = "catalog:stores"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	CacheTTL time.Duration
}

// CatalogService resolves the store catalog.
// Flow: check cache -> fetch remote catalog -> cache -> return, falling back
// to the built-in catalog whenever the remote one is unusable.
type CatalogService struct {
	cache    domain.CacheRepository
	client   domain.CatalogClient
	fallback []domain.Store
	cacheTTL time.Duration
}

// NewCatalogService creates a catalog service. client may be nil when no
// remote catalog is configured.
func NewCatalogService(
	cache domain.CacheRepository,
	client domain.CatalogClient,
	fallback []domain.Store,
	config CatalogServiceConfig,
) *CatalogService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 6 * time.Hour
	}

	return &CatalogService{
		cache:    cache,
		client:   client,
		fallback: fallback,
		cacheTTL: cacheTTL,
	}
}

// Stores returns the current catalog. It only fails when ctx is done.
func (s *CatalogService) Stores(ctx context.Context) ([]domain.Store, error) {
	if stores, ok := s.getFromCache(ctx); ok {
		return stores, nil
	}

	if s.client != nil {
		stores, err := s.client.FetchStores(ctx)
		switch {
		case err == nil && len(stores) > 0:
			s.setInCache(ctx, stores)
			return stores, nil
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			log.Warn().Err(err).Msg("remote catalog unavailable, using built-in catalog")
		default:
			log.Warn().Msg("remote catalog is empty, using built-in catalog")
		}
	}

	out := make([]domain.Store, len(s.fallback))
	copy(out, s.fallback)
	return out, nil
}

// Canonicalizer builds a StoreCanonicalizer over the current catalog
func (s *CatalogService) Canonicalizer(ctx context.Context) (*StoreCanonicalizer, error) {
	stores, err := s.Stores(ctx)
	if err != nil {
		return nil, err
	}
	return NewStoreCanonicalizer(stores), nil
}

func (s *CatalogService) getFromCache(ctx context.Context) ([]domain.Store, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, catalogCacheKey)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
		return nil, false
	}

	var stores []domain.Store
	if err := json.Unmarshal(raw, &stores); err != nil || len(stores) == 0 {
		return nil, false
	}
	return stores, true
}

func (s *CatalogService) setInCache(ctx context.Context, stores []domain.Store) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stores)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, catalogCacheKey, raw, s.cacheTTL); err != nil {
		// Caching is best effort
		log.Warn().Err(err).Msg("catalog cache write failed")
	}
}
