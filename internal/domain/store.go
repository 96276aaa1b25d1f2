package domain

// Location is a point on the earth in decimal degrees
type Location struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// Store is one catalog entry. Several physical locations may share a Code:
// pricing is per chain, distance is per location.
type Store struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Address string   `json:"address,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// HasCoordinates reports whether the entry can be used for distance calculations
func (s Store) HasCoordinates() bool {
	return s.Lat != nil && s.Lon != nil
}

// Location returns the entry's coordinates; ok is false when they are missing
func (s Store) Location() (Location, bool) {
	if !s.HasCoordinates() {
		return Location{}, false
	}
	return Location{Lat: *s.Lat, Lon: *s.Lon}, true
}
