package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestMapToStore(t *testing.T) {
	tests := []struct {
		name    string
		dto     storeDTO
		wantOK  bool
		wantLat *float64
		wantNm  string
	}{
		{
			name:    "complete entry",
			dto:     storeDTO{Code: "IGA", Name: "IGA Extra", Lat: ptr(45.5), Lon: ptr(-73.6)},
			wantOK:  true,
			wantLat: ptr(45.5),
			wantNm:  "IGA Extra",
		},
		{
			name:    "latitude and longitude aliases",
			dto:     storeDTO{Code: "Metro", Name: "Metro", Latitude: ptr(45.4), Longitude: ptr(-73.5)},
			wantOK:  true,
			wantLat: ptr(45.4),
			wantNm:  "Metro",
		},
		{
			name:   "missing name falls back to code",
			dto:    storeDTO{Code: " Maxi "},
			wantOK: true,
			wantNm: "Maxi",
		},
		{
			name:   "half coordinates are dropped",
			dto:    storeDTO{Code: "Costco", Name: "Costco", Lat: ptr(45.5)},
			wantOK: true,
			wantNm: "Costco",
		},
		{
			name:   "missing code",
			dto:    storeDTO{Name: "Nowhere"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapToStore(tt.dto)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantNm, got.Name)
			if tt.wantLat == nil {
				assert.False(t, got.HasCoordinates())
			} else {
				require.True(t, got.HasCoordinates())
				assert.Equal(t, *tt.wantLat, *got.Lat)
			}
		})
	}
}

func TestDecodeStores(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCodes []string
		wantErr   bool
	}{
		{
			name:      "bare array",
			body:      `[{"code":"IGA","name":"IGA"},{"code":"Metro","name":"Metro"}]`,
			wantCodes: []string{"IGA", "Metro"},
		},
		{
			name:      "wrapped object",
			body:      ` {"stores":[{"code":"Maxi","name":"Maxi"},{"name":"no code"}]}`,
			wantCodes: []string{"Maxi"},
		},
		{
			name:      "empty wrapper",
			body:      `{}`,
			wantCodes: []string{},
		},
		{
			name:    "malformed",
			body:    `[{"code":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stores, err := decodeStores([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			codes := make([]string, 0, len(stores))
			for _, s := range stores {
				codes = append(codes, s.Code)
			}
			assert.Equal(t, tt.wantCodes, codes)
		})
	}
}
