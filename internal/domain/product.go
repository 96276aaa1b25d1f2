package domain

import "github.com/google/uuid"

// PriceSource records where a product's current price came from
type PriceSource string

const (
	PriceSourceManual       PriceSource = "manual"
	PriceSourceOptimization PriceSource = "optimization"
	PriceSourceWeekly       PriceSource = "weekly"
	PriceSourceOCR          PriceSource = "ocr"
	PriceSourceEstimated    PriceSource = "estimated"
)

// Valid reports whether s is one of the known price sources
func (s PriceSource) Valid() bool {
	switch s {
	case PriceSourceManual, PriceSourceOptimization, PriceSourceWeekly, PriceSourceOCR, PriceSourceEstimated:
		return true
	}
	return false
}

// Product is a single shopping list entry
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand,omitempty"`
	Volume   string `json:"volume,omitempty"`
	NameKey  string `json:"nameKey,omitempty"`
	Quantity int    `json:"quantity"`

	// Purchase assignment state, written by the optimizer or by the user
	Price        *float64    `json:"price,omitempty"`
	Store        string      `json:"store,omitempty"`
	PriceSource  PriceSource `json:"priceSource,omitempty"`
	AutoAssigned bool        `json:"autoAssigned"`
	LockedStore  bool        `json:"lockedStore"`
}

// NewProduct creates a list entry with a fresh identifier.
// The caller is expected to compute NameKey through the normalizer.
func NewProduct(name, brand, volume string, quantity int) *Product {
	p := &Product{
		ID:       uuid.NewString(),
		Name:     name,
		Brand:    brand,
		Volume:   volume,
		Quantity: quantity,
	}
	p.ClampQuantity()
	return p
}

// ClampQuantity enforces quantity >= 1
func (p *Product) ClampQuantity() {
	if p.Quantity < 1 {
		p.Quantity = 1
	}
}

// EnsureID assigns an identifier to entries that arrive without one
func (p *Product) EnsureID() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
}

// NormalizedName is the identity derived from a product's name, brand and volume
type NormalizedName struct {
	BaseName string   `json:"baseName"`
	Brand    string   `json:"brand"`
	Volume   string   `json:"volume"`
	NameKey  string   `json:"nameKey"`
	Tokens   []string `json:"tokens"`
}

// Format is a parsed size/format string such as "2L" or "3x200g"
type Format struct {
	Quantity          *float64 `json:"quantity"`
	Unit              string   `json:"unit"`
	PackCount         int      `json:"packCount,omitempty"`
	CanonicalQuantity *float64 `json:"canonicalQuantity"`
	CanonicalUnit     string   `json:"canonicalUnit"`
}

// Alternative is a cheaper similar product found in the price table
type Alternative struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Store      string  `json:"store"`
	Savings    float64 `json:"savings"`
	SavingsPct float64 `json:"savingsPct"`
	Similarity float64 `json:"similarity"`
}
