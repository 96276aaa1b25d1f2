package pricefeed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerylens/backend/internal/domain"
)

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weekly.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileProvider_LoadPriceTable(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantPrices map[string]map[string]float64
		wantSource string
	}{
		{
			name:    "bare table",
			content: `{"lait 2l":{"IGA":5.49,"Maxi":4.99},"pain blanc":{"Metro":3.29}}`,
			wantPrices: map[string]map[string]float64{
				"lait 2l":    {"IGA": 5.49, "Maxi": 4.99},
				"pain blanc": {"Metro": 3.29},
			},
			wantSource: "weekly",
		},
		{
			name:    "wrapped table keeps existing meta",
			content: `{"prices":{"oeufs 12":{"Costco":3.99}},"meta":{"oeufs 12":{"isStored":true,"source":"ocr"}}}`,
			wantPrices: map[string]map[string]float64{
				"oeufs 12": {"Costco": 3.99},
			},
			wantSource: "ocr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewFileProvider(writeFeed(t, tt.content))

			table, err := provider.LoadPriceTable(context.Background())
			require.NoError(t, err)

			assert.Equal(t, len(tt.wantPrices), table.Len())
			for product, stores := range tt.wantPrices {
				assert.Equal(t, stores, table.StorePrices(product))
				meta, ok := table.Meta(product)
				require.True(t, ok)
				assert.Equal(t, tt.wantSource, meta.Source)
			}
		})
	}
}

func TestFileProvider_MissingFile(t *testing.T) {
	provider := NewFileProvider(filepath.Join(t.TempDir(), "absent.json"))

	table, err := provider.LoadPriceTable(context.Background())

	assert.Nil(t, table)
	assert.ErrorIs(t, err, domain.ErrPriceFeedUnavailable)
}

func TestFileProvider_EmptyPath(t *testing.T) {
	_, err := NewFileProvider("").LoadPriceTable(context.Background())
	assert.ErrorIs(t, err, domain.ErrPriceFeedUnavailable)
}

func TestFileProvider_InvalidJSON(t *testing.T) {
	provider := NewFileProvider(writeFeed(t, "not json"))

	_, err := provider.LoadPriceTable(context.Background())
	assert.ErrorIs(t, err, domain.ErrPriceFeedUnavailable)
}

func TestFileProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileProvider(writeFeed(t, `{}`)).LoadPriceTable(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
