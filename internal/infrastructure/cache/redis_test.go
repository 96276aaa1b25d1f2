package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerylens/backend/internal/domain"
)

func TestPrefixed(t *testing.T) {
	assert.Equal(t, "grocerylens:catalog:stores", prefixed("catalog:stores"))
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-redis-url")
	require.Error(t, err)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable))
}

// TestRedisCache_RoundTrip runs against a live server when GROCERYLENS_TEST_REDIS_URL is set
func TestRedisCache_RoundTrip(t *testing.T) {
	url := os.Getenv("GROCERYLENS_TEST_REDIS_URL")
	if url == "" {
		t.Skip("GROCERYLENS_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, url)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "test:key", []byte("value"), time.Minute))

	got, err := c.Get(ctx, "test:key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	exists, err := c.Exists(ctx, "test:key")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete(ctx, "test:key"))
	_, err = c.Get(ctx, "test:key")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
