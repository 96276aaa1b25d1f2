package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grocerylens/backend/internal/domain"
)

var testBounds = domain.ScoreBounds{
	Price:      domain.Range{Min: 10, Max: 20},
	Distance:   domain.Range{Min: 0, Max: 10},
	StoreCount: domain.Range{Min: 1, Max: 3},
}

func TestScoreCombination(t *testing.T) {
	w := domain.DefaultScoringWeights()

	tests := []struct {
		name string
		in   domain.ScoreInputs
		want float64
	}{
		{
			name: "best on every axis",
			in:   domain.ScoreInputs{TotalPrice: 10, TotalDistanceKm: 0, StoreCount: 1, Coverage: 1},
			want: 0,
		},
		{
			name: "worst on every axis",
			in:   domain.ScoreInputs{TotalPrice: 20, TotalDistanceKm: 10, StoreCount: 3, Coverage: 1},
			want: 0.95,
		},
		{
			name: "midpoints",
			in:   domain.ScoreInputs{TotalPrice: 15, TotalDistanceKm: 5, StoreCount: 2, Coverage: 1},
			want: 0.475,
		},
		{
			name: "favorites lower the score",
			in:   domain.ScoreInputs{TotalPrice: 10, StoreCount: 1, Coverage: 1, FavoritesCount: 2},
			want: -0.1,
		},
		{
			name: "partial coverage is penalized",
			in:   domain.ScoreInputs{TotalPrice: 10, StoreCount: 1, Coverage: 0.5},
			want: 0.1,
		},
		{
			name: "nan coverage counts as none",
			in:   domain.ScoreInputs{TotalPrice: 10, StoreCount: 1, Coverage: math.NaN()},
			want: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScoreCombination(tt.in, w, testBounds), 1e-9)
		})
	}
}

func TestScoreCombination_MonotonicInEachDimension(t *testing.T) {
	w := domain.DefaultScoringWeights()
	base := domain.ScoreInputs{TotalPrice: 12, TotalDistanceKm: 2, StoreCount: 1, Coverage: 1}
	baseScore := ScoreCombination(base, w, testBounds)

	pricier := base
	pricier.TotalPrice = 18
	assert.Greater(t, ScoreCombination(pricier, w, testBounds), baseScore)

	farther := base
	farther.TotalDistanceKm = 8
	assert.Greater(t, ScoreCombination(farther, w, testBounds), baseScore)

	moreStores := base
	moreStores.StoreCount = 3
	assert.Greater(t, ScoreCombination(moreStores, w, testBounds), baseScore)

	lessCovered := base
	lessCovered.Coverage = 0.8
	assert.Greater(t, ScoreCombination(lessCovered, w, testBounds), baseScore)
}

func TestScoreCombination_DegenerateBounds(t *testing.T) {
	w := domain.ScoringWeights{Price: 1}
	bounds := domain.ScoreBounds{
		Price:      domain.Range{Min: 12, Max: 12},
		Distance:   domain.Range{Min: 0, Max: 0},
		StoreCount: domain.Range{Min: 1, Max: 1},
	}

	got := ScoreCombination(domain.ScoreInputs{TotalPrice: 12, StoreCount: 1, Coverage: 1}, w, bounds)
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, 1.0, got)
}

func TestNormalizeToUnit(t *testing.T) {
	r := domain.Range{Min: 0, Max: 10}

	assert.Equal(t, 0.0, normalizeToUnit(-5, r))
	assert.Equal(t, 0.5, normalizeToUnit(5, r))
	assert.Equal(t, 1.0, normalizeToUnit(15, r))
	assert.Equal(t, 1.0, normalizeToUnit(math.NaN(), r))
	assert.Equal(t, 1.0, normalizeToUnit(math.Inf(1), r))
	assert.Equal(t, 1.0, normalizeToUnit(3, domain.Range{Min: 3, Max: 3}))
	assert.Equal(t, 1.0, normalizeToUnit(3, domain.Range{Min: math.NaN(), Max: 3}))
}
