package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/grocerylens/backend/internal/domain"
)

// Canonical bases for unit-price comparisons
const (
	CanonicalUnitMilliliter = "ml"
	CanonicalUnitGram       = "g"
	CanonicalUnitCount      = "unit"
)

// unitConversion maps a recognized unit to its canonical base and factor
type unitConversion struct {
	base   string
	factor float64
}

var unitTable = map[string]unitConversion{
	"ml": {CanonicalUnitMilliliter, 1},
	"cl": {CanonicalUnitMilliliter, 10},
	"l":  {CanonicalUnitMilliliter, 1000},
	"g":  {CanonicalUnitGram, 1},
	"kg": {CanonicalUnitGram, 1000},
	"mg": {CanonicalUnitGram, 0.001},
	"oz": {CanonicalUnitGram, 28.3495},
	"lb": {CanonicalUnitGram, 453.592},
}

var unitAliases = map[string]string{
	"lbs":    "lb",
	"litre":  "l",
	"litres": "l",
	"liter":  "l",
	"liters": "l",
}

// Unit alternation lists longer units first so "ml" wins over "l" and "kg" over "g"
const unitAlternation = `(ml|cl|litres?|liters?|l|kg|mg|g|oz|lbs|lb)`

var (
	multipackFormatRegex = regexp.MustCompile(`(?i)(\d+)\s*[x×]\s*(\d+(?:[.,]\d+)?)\s*` + unitAlternation + `\b`)
	singleFormatRegex    = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*` + unitAlternation + `\b`)
	countFormatRegex     = regexp.MustCompile(`(?i)^\s*(\d+)\s*(?:unités?|unites?|units?|pcs?|ct)?\s*$`)
)

// ParseFormat parses a free-text size string into a quantity and a canonical
// ml/g amount. Unrecognized text yields CanonicalUnit "unit" and a nil canonical quantity.
func ParseFormat(text string) domain.Format {
	unknown := domain.Format{CanonicalUnit: CanonicalUnitCount}

	if m := multipackFormatRegex.FindStringSubmatch(text); m != nil {
		count, err := strconv.Atoi(m[1])
		if err != nil || count <= 0 {
			return unknown
		}
		size, ok := parseDecimal(m[2])
		if !ok {
			return unknown
		}
		return buildFormat(float64(count)*size, m[3], count)
	}

	if m := singleFormatRegex.FindStringSubmatch(text); m != nil {
		size, ok := parseDecimal(m[1])
		if !ok {
			return unknown
		}
		return buildFormat(size, m[2], 0)
	}

	if m := countFormatRegex.FindStringSubmatch(text); m != nil {
		if n, ok := parseDecimal(m[1]); ok {
			unknown.Quantity = &n
		}
	}

	return unknown
}

func buildFormat(quantity float64, rawUnit string, packCount int) domain.Format {
	unit := strings.ToLower(rawUnit)
	if alias, ok := unitAliases[unit]; ok {
		unit = alias
	}
	conv := unitTable[unit]
	canonical := roundTo(quantity*conv.factor, 3)
	q := roundTo(quantity, 3)
	return domain.Format{
		Quantity:          &q,
		Unit:              unit,
		PackCount:         packCount,
		CanonicalQuantity: &canonical,
		CanonicalUnit:     conv.base,
	}
}

// ComputeUnitPrice divides price by the canonical quantity.
// Returns nil when either operand is missing, the quantity is not positive,
// or the unit is not a measurable base.
func ComputeUnitPrice(price *float64, canonicalQuantity *float64, canonicalUnit string) *float64 {
	if price == nil || canonicalQuantity == nil {
		return nil
	}
	if canonicalUnit == "" || canonicalUnit == CanonicalUnitCount {
		return nil
	}
	q := *canonicalQuantity
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return nil
	}
	unitPrice := *price / q
	if math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return nil
	}
	return &unitPrice
}

// FormatUnitQuantity renders a canonical amount for display,
// switching ml to L and g to kg at 1000.
func FormatUnitQuantity(quantity float64, canonicalUnit string) string {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return ""
	}
	switch canonicalUnit {
	case CanonicalUnitMilliliter:
		if quantity >= 1000 {
			return formatNumber(quantity/1000) + " L"
		}
		return formatNumber(quantity) + " ml"
	case CanonicalUnitGram:
		if quantity >= 1000 {
			return formatNumber(quantity/1000) + " kg"
		}
		return formatNumber(quantity) + " g"
	case "", CanonicalUnitCount:
		return formatNumber(quantity)
	default:
		return formatNumber(quantity) + " " + canonicalUnit
	}
}

// parseDecimal accepts both "1.5" and "1,5"
func parseDecimal(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(roundTo(v, 2), 'f', -1, 64)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
