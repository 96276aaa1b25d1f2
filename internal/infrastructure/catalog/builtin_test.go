package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltinStores(t *testing.T) {
	stores := BuiltinStores()

	assert.NotEmpty(t, stores)

	codes := make(map[string]int)
	for _, s := range stores {
		assert.NotEmpty(t, s.Code)
		assert.NotEmpty(t, s.Name)
		assert.True(t, s.HasCoordinates(), "store %s has no coordinates", s.Name)
		codes[s.Code]++
	}

	for _, code := range []string{"IGA", "Metro", "Maxi", "SuperC", "Provigo", "Walmart", "Costco"} {
		assert.Contains(t, codes, code)
	}
	assert.Greater(t, codes["IGA"], 1, "chains may have several locations")
}

func TestBuiltinStores_ReturnsFreshCopies(t *testing.T) {
	first := BuiltinStores()
	*first[0].Lat = 0

	second := BuiltinStores()
	assert.NotEqual(t, 0.0, *second[0].Lat)
}
