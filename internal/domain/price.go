package domain

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"
)

// PriceMeta carries provenance for one price table entry
type PriceMeta struct {
	IsStored  bool      `json:"isStored,omitempty"`
	Source    string    `json:"source,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// PriceTable maps a product (display name or nameKey) to store prices.
// Provenance lives in a separate map so iterating products never sees metadata.
type PriceTable struct {
	prices map[string]map[string]float64
	meta   map[string]PriceMeta
}

// NewPriceTable creates an empty price table
func NewPriceTable() *PriceTable {
	return &PriceTable{
		prices: make(map[string]map[string]float64),
		meta:   make(map[string]PriceMeta),
	}
}

// Set records a price. Negative and non-finite prices are ignored.
func (t *PriceTable) Set(product, store string, price float64) {
	if product == "" || store == "" {
		return
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return
	}
	stores, ok := t.prices[product]
	if !ok {
		stores = make(map[string]float64)
		t.prices[product] = stores
	}
	stores[store] = price
}

// SetMeta records provenance for a product entry
func (t *PriceTable) SetMeta(product string, meta PriceMeta) {
	t.meta[product] = meta
}

// Meta returns provenance for a product entry
func (t *PriceTable) Meta(product string) (PriceMeta, bool) {
	m, ok := t.meta[product]
	return m, ok
}

// Price returns the price of product at store
func (t *PriceTable) Price(product, store string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	p, ok := t.prices[product][store]
	return p, ok
}

// StorePrices returns the store->price map for product (nil when absent).
// The returned map must not be modified.
func (t *PriceTable) StorePrices(product string) map[string]float64 {
	if t == nil {
		return nil
	}
	return t.prices[product]
}

// Lookup resolves the table key for a list entry: display name first,
// then its lowercase trimmed form, then its nameKey.
func (t *PriceTable) Lookup(p Product) (string, bool) {
	if t == nil {
		return "", false
	}
	candidates := []string{p.Name, strings.ToLower(strings.TrimSpace(p.Name)), p.NameKey}
	for _, key := range candidates {
		if key == "" {
			continue
		}
		if _, ok := t.prices[key]; ok {
			return key, true
		}
	}
	return "", false
}

// Products returns all product keys, sorted
func (t *PriceTable) Products() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.prices))
	for k := range t.prices {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stores returns every distinct store code in the table, sorted
func (t *PriceTable) Stores() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, stores := range t.prices {
		for s := range stores {
			seen[s] = true
		}
	}
	codes := make([]string, 0, len(seen))
	for s := range seen {
		codes = append(codes, s)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of product entries
func (t *PriceTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.prices)
}

// CanonicalizeStores returns a copy with every store name passed through fn.
// When two names collapse to the same code the lower price wins.
func (t *PriceTable) CanonicalizeStores(fn func(string) string) *PriceTable {
	out := NewPriceTable()
	if t == nil {
		return out
	}
	for product, stores := range t.prices {
		for store, price := range stores {
			code := fn(store)
			if code == "" {
				continue
			}
			if existing, ok := out.Price(product, code); ok && existing <= price {
				continue
			}
			out.Set(product, code, price)
		}
	}
	for product, m := range t.meta {
		out.meta[product] = m
	}
	return out
}

type priceTableJSON struct {
	Prices map[string]map[string]float64 `json:"prices"`
	Meta   map[string]PriceMeta          `json:"meta,omitempty"`
}

// MarshalJSON encodes the table as {"prices": {...}, "meta": {...}}
func (t *PriceTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(priceTableJSON{Prices: t.prices, Meta: t.meta})
}

// UnmarshalJSON accepts either the wrapped form or a bare product->store->price object
func (t *PriceTable) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	fresh := NewPriceTable()
	_, hasPrices := fields["prices"]
	if hasPrices {
		var wrapped priceTableJSON
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		for product, stores := range wrapped.Prices {
			for store, price := range stores {
				fresh.Set(product, store, price)
			}
		}
		for product, m := range wrapped.Meta {
			fresh.meta[product] = m
		}
	} else {
		var bare map[string]map[string]float64
		if err := json.Unmarshal(data, &bare); err != nil {
			return err
		}
		for product, stores := range bare {
			for store, price := range stores {
				fresh.Set(product, store, price)
			}
		}
	}

	*t = *fresh
	return nil
}
