package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/grocerylens/backend/internal/domain"
)

// MeanPriceBaseline returns, per product key, the mean price across all stores
// carrying it. It is the reference point for combination savings and lives
// outside the search engine because the engine has no other use for it.
func MeanPriceBaseline(table *domain.PriceTable) map[string]float64 {
	baseline := make(map[string]float64, table.Len())
	for _, product := range table.Products() {
		prices := table.StorePrices(product)
		if len(prices) == 0 {
			continue
		}
		sum := decimal.Zero
		for _, p := range prices {
			sum = sum.Add(decimal.NewFromFloat(p))
		}
		mean, _ := sum.Div(decimal.NewFromInt(int64(len(prices)))).Round(4).Float64()
		baseline[product] = mean
	}
	return baseline
}

// ApplyCombination writes a chosen combination back onto list products:
// store and price are copied, priceSource becomes "optimization" and
// autoAssigned is set. Products left unknown by the combination are untouched.
func ApplyCombination(products []domain.Product, c domain.Combination) []domain.Product {
	byID := make(map[string]domain.Assignment, len(c.Assignment))
	for _, a := range c.Assignment {
		if a.ProductID != "" {
			byID[a.ProductID] = a
		}
	}

	out := make([]domain.Product, len(products))
	for i, p := range products {
		a, ok := byID[p.ID]
		if !ok && i < len(c.Assignment) && c.Assignment[i].ProductID == "" {
			a, ok = c.Assignment[i], true
		}
		if ok && a.Known() {
			price := *a.Price
			p.Store = *a.Store
			p.Price = &price
			p.PriceSource = domain.PriceSourceOptimization
			p.AutoAssigned = true
		}
		out[i] = p
	}
	return out
}
