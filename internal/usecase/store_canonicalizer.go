package usecase

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/grocerylens/backend/internal/domain"
)

const earthRadiusKm = 6371.0

// StoreCanonicalizer maps free-text store names onto catalog codes and
// resolves the physical locations behind each code.
type StoreCanonicalizer struct {
	stores    []domain.Store
	exact     map[string]string
	relaxed   map[string]string
	locations map[string][]domain.Store
	codes     []string
}

// NewStoreCanonicalizer indexes a catalog. Entries without a code are ignored;
// when two entries claim the same alias the first one wins.
func NewStoreCanonicalizer(stores []domain.Store) *StoreCanonicalizer {
	c := &StoreCanonicalizer{
		exact:     make(map[string]string),
		relaxed:   make(map[string]string),
		locations: make(map[string][]domain.Store),
	}

	for _, s := range stores {
		code := strings.TrimSpace(s.Code)
		if code == "" {
			continue
		}
		s.Code = code
		c.stores = append(c.stores, s)

		if _, seen := c.locations[code]; !seen {
			c.codes = append(c.codes, code)
		}
		c.locations[code] = append(c.locations[code], s)

		for _, alias := range []string{code, s.Name} {
			key := exactKey(alias)
			if key == "" {
				continue
			}
			if _, taken := c.exact[key]; !taken {
				c.exact[key] = code
			}
			rk := relaxedKey(alias)
			if _, taken := c.relaxed[rk]; !taken {
				c.relaxed[rk] = code
			}
		}
	}

	sort.Strings(c.codes)
	return c
}

// Canonicalize returns the catalog code for name, or the trimmed input when
// nothing matches. Empty input yields "".
func (c *StoreCanonicalizer) Canonicalize(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if code, ok := c.lookup(trimmed); ok {
		return code
	}
	return trimmed
}

// Known reports whether name resolves to a catalog code
func (c *StoreCanonicalizer) Known(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	_, ok := c.lookup(trimmed)
	return ok
}

func (c *StoreCanonicalizer) lookup(trimmed string) (string, bool) {
	if code, ok := c.exact[exactKey(trimmed)]; ok {
		return code, true
	}
	if code, ok := c.relaxed[relaxedKey(trimmed)]; ok {
		return code, true
	}
	return "", false
}

// Codes returns the distinct catalog codes, sorted
func (c *StoreCanonicalizer) Codes() []string {
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// Stores returns every catalog entry in insertion order
func (c *StoreCanonicalizer) Stores() []domain.Store {
	out := make([]domain.Store, len(c.stores))
	copy(out, c.stores)
	return out
}

// NearestLocation finds the closest physical entry for code.
// ok is false when no entry of that code has coordinates.
func (c *StoreCanonicalizer) NearestLocation(code string, from domain.Location) (domain.Store, float64, bool) {
	var best domain.Store
	bestKm := math.Inf(1)
	found := false

	for _, s := range c.locations[code] {
		loc, ok := s.Location()
		if !ok {
			continue
		}
		km := HaversineKm(from, loc)
		if km < bestKm {
			best, bestKm, found = s, km, true
		}
	}
	if !found {
		return domain.Store{}, 0, false
	}
	return best, bestKm, true
}

// HaversineKm is the great-circle distance between two points
func HaversineKm(a, b domain.Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func exactKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func relaxedKey(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
