package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque JSON payloads so memory and redis backends behave alike.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogClient fetches the store catalog from a remote JSON resource
type CatalogClient interface {
	FetchStores(ctx context.Context) ([]Store, error)
}

// PriceProvider supplies a price table built by an ingestion collaborator
// (weekly feed, OCR pipeline, mock provider)
type PriceProvider interface {
	LoadPriceTable(ctx context.Context) (*PriceTable, error)
}
