package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/grocerylens/backend/internal/domain"
)

// storeDTO is the wire shape of one catalog entry. Coordinates may arrive as
// lat/lon or latitude/longitude.
type storeDTO struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type catalogEnvelope struct {
	Stores []storeDTO `json:"stores"`
}

// decodeStores accepts either a bare JSON array or {"stores": [...]}
func decodeStores(body []byte) ([]domain.Store, error) {
	trimmed := bytes.TrimSpace(body)

	var dtos []storeDTO
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &dtos); err != nil {
			return nil, err
		}
	} else {
		var env catalogEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		dtos = env.Stores
	}

	stores := make([]domain.Store, 0, len(dtos))
	for _, dto := range dtos {
		if store, ok := MapToStore(dto); ok {
			stores = append(stores, store)
		}
	}
	return stores, nil
}

// MapToStore converts a wire entry into a domain store. Entries without a
// code are dropped; a missing name falls back to the code.
func MapToStore(dto storeDTO) (domain.Store, bool) {
	code := strings.TrimSpace(dto.Code)
	if code == "" {
		return domain.Store{}, false
	}

	name := strings.TrimSpace(dto.Name)
	if name == "" {
		name = code
	}

	lat, lon := dto.Lat, dto.Lon
	if lat == nil {
		lat = dto.Latitude
	}
	if lon == nil {
		lon = dto.Longitude
	}
	if lat == nil || lon == nil {
		lat, lon = nil, nil
	}

	return domain.Store{
		Code:    code,
		Name:    name,
		Address: strings.TrimSpace(dto.Address),
		Lat:     lat,
		Lon:     lon,
	}, true
}
