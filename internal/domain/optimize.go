package domain

// Ranking modes for an optimization request
const (
	RankByScore    = "score"
	RankByCoverage = "coverage"
)

// OptimizeRequest represents a multi-store optimization request.
// Zero values fall back to the service configuration.
type OptimizeRequest struct {
	Products []Product   `json:"products" validate:"max=200,dive"`
	Prices   *PriceTable `json:"prices,omitempty"`

	MaxStores int `json:"maxStores" validate:"gte=0,lte=8"`
	TopN      int `json:"topN" validate:"gte=0,lte=50"`

	Location       *Location       `json:"location,omitempty" validate:"omitempty"`
	MaxRadiusKm    *float64        `json:"maxRadiusKm,omitempty" validate:"omitempty,gte=0"`
	AllowedStores  []string        `json:"allowedStores,omitempty"`
	FavoriteStores []string        `json:"favoriteStores,omitempty"`
	Weights        *ScoringWeights `json:"weights,omitempty" validate:"omitempty"`
	RankBy         string          `json:"rankBy,omitempty" validate:"omitempty,oneof=score coverage"`

	// ApplyBest writes the top combination back onto the returned products
	ApplyBest bool `json:"applyBest,omitempty"`
}

// OptimizeResult is the outcome of an optimization run
type OptimizeResult struct {
	Combinations []Combination `json:"combinations"`
	Products     []Product     `json:"products,omitempty"`
	StoreCount   int           `json:"storeCount"`
	ProductCount int           `json:"productCount"`
}
