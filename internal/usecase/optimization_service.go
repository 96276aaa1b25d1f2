package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/grocerylens/backend/internal/domain"
)

const priceTableCacheKey = "pricefeed:table"

// OptimizationServiceConfig holds the defaults applied to every request
type OptimizationServiceConfig struct {
	MaxStores       int
	TopN            int
	SearchRadiusKm  float64
	MaxCombinations int
	EnablePruning   bool
	FavoriteStores  []string
	Weights         domain.ScoringWeights
	Substitution    SubstitutionConfig
	CacheTTL        time.Duration
}

// OptimizationService wires the catalog, the price feed and the pure search
// algorithms together for the delivery layer
type OptimizationService struct {
	catalog *CatalogService
	prices  domain.PriceProvider
	cache   domain.CacheRepository
	finder  *SubstitutionFinder
	config  OptimizationServiceConfig
}

// NewOptimizationService creates an optimization service. prices and cache
// may be nil; requests must then carry their own price table.
func NewOptimizationService(
	catalog *CatalogService,
	prices domain.PriceProvider,
	cache domain.CacheRepository,
	config OptimizationServiceConfig,
) *OptimizationService {
	if config.MaxStores < 1 {
		config.MaxStores = 3
	}
	if config.TopN < 1 {
		config.TopN = 5
	}
	if config.MaxCombinations < 1 {
		config.MaxCombinations = DefaultMaxCombinations
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 6 * time.Hour
	}
	if config.Substitution == (SubstitutionConfig{}) {
		config.Substitution = DefaultSubstitutionConfig()
	}

	return &OptimizationService{
		catalog: catalog,
		prices:  prices,
		cache:   cache,
		finder:  NewSubstitutionFinder(config.Substitution),
		config:  config,
	}
}

// Optimize finds the best store combinations for a shopping list.
// Flow: load catalog + price table (concurrently) -> canonicalize stores ->
// recompute name keys -> baseline -> search.
func (s *OptimizationService) Optimize(ctx context.Context, req domain.OptimizeRequest) (*domain.OptimizeResult, error) {
	if len(req.Products) == 0 {
		return &domain.OptimizeResult{Combinations: []domain.Combination{}}, nil
	}
	if req.MaxStores < 0 || req.TopN < 0 {
		return nil, domain.ErrInvalidRequest
	}

	canon, table, err := s.load(ctx, req.Prices)
	if err != nil {
		return nil, err
	}

	products := prepareProducts(req.Products)

	maxStores := s.config.MaxStores
	if req.MaxStores > 0 {
		maxStores = req.MaxStores
	}
	topN := s.config.TopN
	if req.TopN > 0 {
		topN = req.TopN
	}
	radius := s.config.SearchRadiusKm
	if req.MaxRadiusKm != nil {
		radius = *req.MaxRadiusKm
	}
	favorites := s.config.FavoriteStores
	if len(req.FavoriteStores) > 0 {
		favorites = req.FavoriteStores
	}

	allowed := make([]string, 0, len(req.AllowedStores))
	for _, name := range req.AllowedStores {
		if code := canon.Canonicalize(name); code != "" {
			allowed = append(allowed, code)
		}
	}

	opts := SearchOptions{
		Location:          req.Location,
		Catalog:           canon,
		AllowedStoreCodes: allowed,
		MaxRadiusKm:       radius,
		EnablePruning:     s.config.EnablePruning,
		MaxCombinations:   s.config.MaxCombinations,
		FavoriteStores:    favorites,
		Baseline:          MeanPriceBaseline(table),
	}
	if req.RankBy != domain.RankByCoverage {
		weights := s.config.Weights
		if req.Weights != nil {
			weights = *req.Weights
		}
		if req.Location == nil {
			weights.Distance = 0
		}
		opts.Weights = &weights
	}

	start := time.Now()
	combinations := FindBestCombinations(products, table, maxStores, topN, opts)

	storeCount := len(table.Stores())
	if storeCount == 0 {
		storeCount = len(canon.Codes())
	}

	log.Debug().
		Int("products", len(products)).
		Int("stores", storeCount).
		Int("combinations", len(combinations)).
		Dur("elapsed", time.Since(start)).
		Msg("optimization finished")

	result := &domain.OptimizeResult{
		Combinations: combinations,
		StoreCount:   storeCount,
		ProductCount: len(products),
	}
	if req.ApplyBest && len(combinations) > 0 {
		result.Products = ApplyCombination(products, combinations[0])
	}
	return result, nil
}

// Substitutions returns cheaper alternatives for product from inline or the feed
func (s *OptimizationService) Substitutions(ctx context.Context, product domain.Product, inline *domain.PriceTable) ([]domain.Alternative, error) {
	canon, table, err := s.load(ctx, inline)
	if err != nil {
		return nil, err
	}
	product.Store = canon.Canonicalize(product.Store)
	ApplyNameKey(&product)
	return s.finder.FindSubstitutions(product, table), nil
}

// Stores returns the current store catalog
func (s *OptimizationService) Stores(ctx context.Context) ([]domain.Store, error) {
	return s.catalog.Stores(ctx)
}

// CanonicalStore resolves a free-text store name against the catalog
func (s *OptimizationService) CanonicalStore(ctx context.Context, name string) (string, bool, error) {
	canon, err := s.catalog.Canonicalizer(ctx)
	if err != nil {
		return "", false, err
	}
	return canon.Canonicalize(name), canon.Known(name), nil
}

// load fetches the catalog and the price table concurrently and returns the
// table with its store names canonicalized
func (s *OptimizationService) load(ctx context.Context, inline *domain.PriceTable) (*StoreCanonicalizer, *domain.PriceTable, error) {
	var (
		canon *StoreCanonicalizer
		table *domain.PriceTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		canon, err = s.catalog.Canonicalizer(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		table, err = s.priceTable(gctx, inline)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return canon, table.CanonicalizeStores(canon.Canonicalize), nil
}

// priceTable returns inline when supplied, else the feed table (through the cache)
func (s *OptimizationService) priceTable(ctx context.Context, inline *domain.PriceTable) (*domain.PriceTable, error) {
	if inline != nil {
		return inline, nil
	}
	if s.prices == nil {
		return nil, domain.ErrNoPriceTable
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, priceTableCacheKey)
		if err == nil {
			table := domain.NewPriceTable()
			if jsonErr := json.Unmarshal(raw, table); jsonErr == nil {
				return table, nil
			}
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn().Err(err).Msg("price table cache read failed")
		}
	}

	table, err := s.prices.LoadPriceTable(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPriceFeedUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceFeedUnavailable, err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(table); err == nil {
			if err := s.cache.Set(ctx, priceTableCacheKey, raw, s.config.CacheTTL); err != nil {
				log.Warn().Err(err).Msg("price table cache write failed")
			}
		}
	}
	return table, nil
}

// prepareProducts copies the list, clamping quantities, assigning missing ids
// and recomputing name keys
func prepareProducts(in []domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	for i, p := range in {
		p.ClampQuantity()
		p.EnsureID()
		ApplyNameKey(&p)
		out[i] = p
	}
	return out
}
