package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerylens/backend/internal/domain"
)

func TestMeanPriceBaseline(t *testing.T) {
	table := groceryTable()
	table.Set("beurre", "IGA", 1)
	table.Set("beurre", "Metro", 2)
	table.Set("beurre", "Maxi", 2)

	got := MeanPriceBaseline(table)

	assert.Equal(t, map[string]float64{
		"lait":   4.5,
		"pain":   3,
		"oeufs":  4,
		"beurre": 1.6667,
	}, got)
}

func TestMeanPriceBaseline_EmptyTable(t *testing.T) {
	assert.Empty(t, MeanPriceBaseline(domain.NewPriceTable()))
	assert.Empty(t, MeanPriceBaseline(nil))
}

func TestApplyCombination(t *testing.T) {
	metro, maxi := "Metro", "Maxi"
	laitPrice, painPrice := 4.50, 3.50

	products := listOf("lait", "pain", "fromage")
	products[2].Store = "IGA"
	combo := domain.Combination{
		Stores: []string{"Maxi", "Metro"},
		Assignment: []domain.Assignment{
			{ProductID: "p2", Name: "pain", Quantity: 1, Store: &maxi, Price: &painPrice},
			{ProductID: "p1", Name: "lait", Quantity: 1, Store: &metro, Price: &laitPrice},
			{ProductID: "p3", Name: "fromage", Quantity: 1},
		},
	}

	got := ApplyCombination(products, combo)

	require.Len(t, got, 3)
	assert.Equal(t, "Metro", got[0].Store)
	require.NotNil(t, got[0].Price)
	assert.Equal(t, 4.50, *got[0].Price)
	assert.Equal(t, domain.PriceSourceOptimization, got[0].PriceSource)
	assert.True(t, got[0].AutoAssigned)

	assert.Equal(t, "Maxi", got[1].Store)
	assert.Equal(t, 3.50, *got[1].Price)

	// unknown assignment leaves the product alone
	assert.Equal(t, "IGA", got[2].Store)
	assert.Nil(t, got[2].Price)
	assert.False(t, got[2].AutoAssigned)

	// the input list is not modified
	assert.Empty(t, products[0].Store)

	// prices are copied, not shared
	*got[0].Price = 0
	assert.Equal(t, 4.50, laitPrice)
}

func TestApplyCombination_PositionalWithoutIDs(t *testing.T) {
	store := "IGA"
	price := 2.99
	products := []domain.Product{{Name: "pain", Quantity: 1}}
	combo := domain.Combination{Assignment: []domain.Assignment{{Name: "pain", Store: &store, Price: &price}}}

	got := ApplyCombination(products, combo)

	assert.Equal(t, "IGA", got[0].Store)
	assert.Equal(t, 2.99, *got[0].Price)
}

func TestApplyCombination_OnFoundCombination(t *testing.T) {
	products := listOf("lait", "pain", "oeufs")
	combos := FindBestCombinations(products, groceryTable(), 2, 1, SearchOptions{})
	require.Len(t, combos, 1)

	got := ApplyCombination(products, combos[0])

	for i, p := range got {
		assert.Equal(t, storeOf(t, combos[0].Assignment[i]), p.Store)
		assert.Equal(t, *combos[0].Assignment[i].Price, *p.Price)
	}
}
