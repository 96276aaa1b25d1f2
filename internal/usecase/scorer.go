package usecase

import (
	"math"

	"github.com/grocerylens/backend/internal/domain"
)

// ScoreCombination blends normalized price, distance and store count with the
// favorite-store bonus and the incomplete-coverage penalty. Lower is better.
// Scores may go negative when favorites dominate; they are only compared relatively.
func ScoreCombination(in domain.ScoreInputs, w domain.ScoringWeights, b domain.ScoreBounds) float64 {
	priceNorm := normalizeToUnit(in.TotalPrice, b.Price)
	distanceNorm := normalizeToUnit(in.TotalDistanceKm, b.Distance)
	storeCountNorm := normalizeToUnit(float64(in.StoreCount), b.StoreCount)

	score := w.Price*priceNorm + w.Distance*distanceNorm + w.StoreCount*storeCountNorm
	score -= float64(in.FavoritesCount) * w.FavoritesBoost

	coverage := in.Coverage
	if math.IsNaN(coverage) {
		coverage = 0
	}
	if coverage < 1 {
		score += (1 - math.Max(0, coverage)) * w.CoveragePenalty
	}

	return roundTo(score, 4)
}

// normalizeToUnit maps value linearly into [0,1] against r.
// A degenerate range or a non-finite value counts as worst (1).
func normalizeToUnit(value float64, r domain.Range) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 1
	}
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Max <= r.Min {
		return 1
	}
	n := (value - r.Min) / (r.Max - r.Min)
	return math.Max(0, math.Min(1, n))
}
