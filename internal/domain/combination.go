package domain

// Assignment is the purchase decision for one list product within a combination.
// Store and Price are nil when no store of the combination carries the product.
type Assignment struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	Store     *string  `json:"store"`
	Price     *float64 `json:"price"`
	Locked    bool     `json:"locked"`
}

// Known reports whether the product received a price
func (a Assignment) Known() bool {
	return a.Store != nil && a.Price != nil
}

// Combination is one candidate subset of stores with its cheapest-per-product assignment
type Combination struct {
	Stores          []string     `json:"stores"`
	Assignment      []Assignment `json:"assignment"`
	Total           float64      `json:"total"`
	Coverage        float64      `json:"coverage"`
	UnknownCount    int          `json:"unknownCount"`
	Savings         *float64     `json:"savings"`
	SavingsPct      *float64     `json:"savingsPct"`
	TotalDistanceKm *float64     `json:"totalDistanceKm"`
	FavoritesCount  int          `json:"favoritesCount"`
	Score           *float64     `json:"score"`
}

// ScoringWeights are the user-configurable knobs of the composite score.
// No normalization is applied: callers own sane totals.
type ScoringWeights struct {
	Price           float64 `json:"price" mapstructure:"price" validate:"gte=0"`
	Distance        float64 `json:"distance" mapstructure:"distance" validate:"gte=0"`
	StoreCount      float64 `json:"storeCount" mapstructure:"store_count" validate:"gte=0"`
	FavoritesBoost  float64 `json:"favoritesBoost" mapstructure:"favorites_boost" validate:"gte=0"`
	CoveragePenalty float64 `json:"coveragePenalty" mapstructure:"coverage_penalty" validate:"gte=0"`
}

// DefaultScoringWeights returns the stock weights
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Price:           0.6,
		Distance:        0.25,
		StoreCount:      0.1,
		FavoritesBoost:  0.05,
		CoveragePenalty: 0.2,
	}
}

// ScoreInputs are the raw measurements of one combination
type ScoreInputs struct {
	TotalPrice      float64
	TotalDistanceKm float64
	StoreCount      int
	Coverage        float64
	FavoritesCount  int
}

// Range is a closed [Min, Max] interval used for linear normalization
type Range struct {
	Min float64
	Max float64
}

// ScoreBounds hold the normalization ranges for the scored dimensions
type ScoreBounds struct {
	Price      Range
	Distance   Range
	StoreCount Range
}
