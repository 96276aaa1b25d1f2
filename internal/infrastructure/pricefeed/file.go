package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/grocerylens/backend/internal/domain"
)

// FileProvider loads the weekly price feed from a static JSON file.
// The file may hold {"prices": {...}, "meta": {...}} or a bare
// product -> store -> price object.
type FileProvider struct {
	Path string
}

// NewFileProvider creates a provider reading path on every load
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// LoadPriceTable reads and decodes the feed. Entries without meta are tagged
// with source "weekly" and the file's modification time.
func (p *FileProvider) LoadPriceTable(ctx context.Context) (*domain.PriceTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Path == "" {
		return nil, fmt.Errorf("%w: no feed path configured", domain.ErrPriceFeedUnavailable)
	}

	info, err := os.Stat(p.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", domain.ErrPriceFeedUnavailable, p.Path)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceFeedUnavailable, err)
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceFeedUnavailable, err)
	}

	table := domain.NewPriceTable()
	if err := json.Unmarshal(data, table); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrPriceFeedUnavailable, p.Path, err)
	}

	for _, product := range table.Products() {
		if _, ok := table.Meta(product); ok {
			continue
		}
		table.SetMeta(product, domain.PriceMeta{
			Source:    string(domain.PriceSourceWeekly),
			UpdatedAt: info.ModTime().UTC(),
		})
	}

	log.Debug().
		Str("path", p.Path).
		Int("products", table.Len()).
		Int("stores", len(table.Stores())).
		Msg("price feed loaded")

	return table, nil
}
