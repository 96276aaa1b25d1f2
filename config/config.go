package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/grocerylens/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Catalog      CatalogConfig
	PriceFeed    PriceFeedConfig `mapstructure:"pricefeed"`
	Cache        CacheConfig
	Optimization OptimizationConfig
	Scoring      domain.ScoringWeights
	Substitution SubstitutionConfig
	RateLimit    RateLimitConfig
	Log          LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds remote store catalog configuration
type CatalogConfig struct {
	URL               string        `mapstructure:"url"` // empty = built-in catalog only
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

// PriceFeedConfig holds the static weekly price feed location
type PriceFeedConfig struct {
	Path string `mapstructure:"path"` // empty = price tables must be sent inline
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// OptimizationConfig holds the combination search defaults
type OptimizationConfig struct {
	MaxStores       int      `mapstructure:"max_stores"`
	TopN            int      `mapstructure:"top_n"`
	SearchRadiusKm  float64  `mapstructure:"search_radius_km"`
	MaxCombinations int      `mapstructure:"max_combinations"`
	EnablePruning   bool     `mapstructure:"enable_pruning"`
	FavoriteStores  []string `mapstructure:"favorite_stores"`
}

// SubstitutionConfig holds substitution finder thresholds
type SubstitutionConfig struct {
	MinSimilarity float64 `mapstructure:"min_similarity"`
	MinSavings    float64 `mapstructure:"min_savings"`
	MaxResults    int     `mapstructure:"max_results"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/grocerylens/")

	// Environment variable settings: GROCERYLENS_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("GROCERYLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile exports variables from ./.env without overriding the environment
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Catalog defaults
	v.SetDefault("catalog.url", "")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.requests_per_minute", 30)

	// Price feed defaults
	v.SetDefault("pricefeed.path", "")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "6h")

	// Optimization defaults
	v.SetDefault("optimization.max_stores", 3)
	v.SetDefault("optimization.top_n", 5)
	v.SetDefault("optimization.search_radius_km", 15.0)
	v.SetDefault("optimization.max_combinations", 500)
	v.SetDefault("optimization.enable_pruning", true)
	v.SetDefault("optimization.favorite_stores", []string{})

	// Scoring defaults
	w := domain.DefaultScoringWeights()
	v.SetDefault("scoring.price", w.Price)
	v.SetDefault("scoring.distance", w.Distance)
	v.SetDefault("scoring.store_count", w.StoreCount)
	v.SetDefault("scoring.favorites_boost", w.FavoritesBoost)
	v.SetDefault("scoring.coverage_penalty", w.CoveragePenalty)

	// Substitution defaults
	v.SetDefault("substitution.min_similarity", 0.4)
	v.SetDefault("substitution.min_savings", 0.5)
	v.SetDefault("substitution.max_results", 5)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Optimization.MaxStores < 1 {
		return fmt.Errorf("optimization.max_stores must be at least 1, got: %d", config.Optimization.MaxStores)
	}

	if config.Optimization.TopN < 1 {
		return fmt.Errorf("optimization.top_n must be at least 1, got: %d", config.Optimization.TopN)
	}

	if config.Optimization.MaxCombinations < 1 {
		return fmt.Errorf("optimization.max_combinations must be at least 1, got: %d", config.Optimization.MaxCombinations)
	}

	if config.Optimization.SearchRadiusKm < 0 {
		return fmt.Errorf("optimization.search_radius_km must not be negative")
	}

	w := config.Scoring
	if w.Price < 0 || w.Distance < 0 || w.StoreCount < 0 || w.FavoritesBoost < 0 || w.CoveragePenalty < 0 {
		return fmt.Errorf("scoring weights must not be negative")
	}

	if config.Substitution.MinSimilarity < 0 || config.Substitution.MinSavings < 0 {
		return fmt.Errorf("substitution thresholds must not be negative (0 disables them)")
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative")
	}

	if config.Log.Format != "" && config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
