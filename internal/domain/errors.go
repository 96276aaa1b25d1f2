package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrNoPriceTable is returned when neither the request nor the feed supplies prices
	ErrNoPriceTable = errors.New("no price table available")

	// ErrPriceFeedUnavailable is returned when the static price feed cannot be read
	ErrPriceFeedUnavailable = errors.New("price feed unavailable")

	// ErrCatalogUnavailable is returned when the remote store catalog cannot be fetched
	ErrCatalogUnavailable = errors.New("store catalog unavailable")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
