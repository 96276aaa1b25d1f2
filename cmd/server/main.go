package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/grocerylens/backend/config"
	httpDelivery "github.com/grocerylens/backend/internal/delivery/http"
	"github.com/grocerylens/backend/internal/domain"
	"github.com/grocerylens/backend/internal/infrastructure/cache"
	"github.com/grocerylens/backend/internal/infrastructure/catalog"
	"github.com/grocerylens/backend/internal/infrastructure/logging"
	"github.com/grocerylens/backend/internal/infrastructure/pricefeed"
	"github.com/grocerylens/backend/internal/usecase"
)

func main() {
	// Console logger until the configured one is set up
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level := logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Server.Environment)
	development := cfg.Server.Environment == "development"

	log.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Type).
		Str("log_level", level.String()).
		Msg("starting GroceryLens backend v1.0.0")

	// Initialize infrastructure dependencies
	store, closer := newCache(cfg.Cache)
	defer closer.Close()

	var catalogClient domain.CatalogClient
	if cfg.Catalog.URL != "" {
		client := catalog.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout, cfg.Catalog.RequestsPerMinute)
		// Enable debug mode in development environment
		client.SetDebug(development)
		catalogClient = client
		log.Info().Str("url", cfg.Catalog.URL).Msg("remote store catalog configured")
	} else {
		log.Info().Msg("no remote catalog configured, using built-in stores")
	}

	var priceProvider domain.PriceProvider
	if cfg.PriceFeed.Path != "" {
		priceProvider = pricefeed.NewFileProvider(cfg.PriceFeed.Path)
		log.Info().Str("path", cfg.PriceFeed.Path).Msg("weekly price feed configured")
	} else {
		log.Warn().Msg("no price feed configured, requests must carry their own prices")
	}

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(
		store,
		catalogClient,
		catalog.BuiltinStores(),
		usecase.CatalogServiceConfig{CacheTTL: cfg.Cache.TTL},
	)

	optimizationService := usecase.NewOptimizationService(
		catalogService,
		priceProvider,
		store,
		usecase.OptimizationServiceConfig{
			MaxStores:       cfg.Optimization.MaxStores,
			TopN:            cfg.Optimization.TopN,
			SearchRadiusKm:  cfg.Optimization.SearchRadiusKm,
			MaxCombinations: cfg.Optimization.MaxCombinations,
			EnablePruning:   cfg.Optimization.EnablePruning,
			FavoriteStores:  cfg.Optimization.FavoriteStores,
			Weights:         cfg.Scoring,
			Substitution: usecase.SubstitutionConfig{
				MinSimilarity: cfg.Substitution.MinSimilarity,
				MinSavings:    cfg.Substitution.MinSavings,
				MaxResults:    cfg.Substitution.MaxResults,
			},
			CacheTTL: cfg.Cache.TTL,
		},
	)

	log.Info().
		Int("max_stores", cfg.Optimization.MaxStores).
		Int("top_n", cfg.Optimization.TopN).
		Int("max_combinations", cfg.Optimization.MaxCombinations).
		Bool("pruning", cfg.Optimization.EnablePruning).
		Msg("optimization defaults")

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(optimizationService, usecase.NewListParser(development))

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// newCache builds the configured cache backend. The returned closer releases it.
func newCache(cfg config.CacheConfig) (domain.CacheRepository, io.Closer) {
	if cfg.Type == "redis" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		log.Info().Msg("redis cache connected")
		return redisCache, redisCache
	}

	memoryCache := cache.NewMemoryCache(10 * time.Minute)
	return memoryCache, memoryCache
}
