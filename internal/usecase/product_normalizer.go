package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/grocerylens/backend/internal/domain"
)

// nameKeySeparator joins the three identity components of a nameKey
const nameKeySeparator = "|"

// Volume units understood by the normalizer, longest first
const volumeUnits = `ml|cl|litres?|liters?|l|kg|mg|g|oz|lbs|lb`

var (
	// Inline volume mentions stripped from the base name ("2l", "500 ml", "12 unites", "2x500ml")
	inlineMultipackRegex = regexp.MustCompile(`\d+\s*[x×]\s*\d+(?:[.,]\d+)?\s*(?:` + volumeUnits + `)\b`)
	inlineVolumeRegex    = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*(?:` + volumeUnits + `|unites?)\b`)

	// Volume guessing from raw text
	guessMultipackRegex = regexp.MustCompile(`(\d+)\s*[x×]\s*(\d+(?:[.,]\d+)?)\s*(` + volumeUnits + `)\b`)
	guessVolumeRegex    = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*(?:` + volumeUnits + `)\b`)

	// Anchored forms used by CanonicalizeVolume on a whitespace-free string
	canonicalMultipackRegex = regexp.MustCompile(`^(\d+)[x×*](\d+(?:\.\d+)?)(` + volumeUnits + `)$`)
	canonicalSingleRegex    = regexp.MustCompile(`^(\d+(?:\.\d+)?)(` + volumeUnits + `)$`)

	nonWordRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

// NormalizeProductName derives the identity of a product from its display name,
// optional brand and optional volume. It never fails: unparseable parts degrade to "".
func NormalizeProductName(name, brand, volume string) domain.NormalizedName {
	folded := foldText(name)

	vol := strings.TrimSpace(volume)
	if vol == "" {
		vol = guessVolume(folded)
	}

	baseName := inlineMultipackRegex.ReplaceAllString(folded, " ")
	baseName = inlineVolumeRegex.ReplaceAllString(baseName, " ")
	baseName = nonWordRegex.ReplaceAllString(baseName, " ")
	baseName = collapseSpaces(baseName)

	brandKey := collapseSpaces(nonWordRegex.ReplaceAllString(foldText(brand), " "))

	return domain.NormalizedName{
		BaseName: baseName,
		Brand:    brandKey,
		Volume:   vol,
		NameKey:  buildNameKey(baseName, brandKey, CanonicalizeVolume(vol)),
		Tokens:   strings.Fields(baseName),
	}
}

// ApplyNameKey recomputes p.NameKey from its name, brand and volume.
// Call it on every create, edit and merge so the key is never stale.
func ApplyNameKey(p *domain.Product) {
	if p == nil {
		return
	}
	p.NameKey = NormalizeProductName(p.Name, p.Brand, p.Volume).NameKey
}

func buildNameKey(baseName, brand, canonicalVolume string) string {
	return baseName + nameKeySeparator + brand + nameKeySeparator + canonicalVolume
}

// guessVolume pulls a size out of free text. Multipacks are summed
// ("2x500ml" -> "1000ml"); a single size is returned as written.
func guessVolume(folded string) string {
	if m := guessMultipackRegex.FindStringSubmatch(folded); m != nil {
		count, err := strconv.Atoi(m[1])
		size, ok := parseDecimal(m[2])
		if err == nil && ok && count > 0 {
			return CanonicalizeVolume(formatVolumeNumber(float64(count)*size) + m[3])
		}
	}
	if m := guessVolumeRegex.FindString(folded); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}

// CanonicalizeVolume rewrites a size string in base units (ml or g) so that
// equivalent notations compare equal: "2L", "2000 ml" and "2x1L" all give "2000ml".
// Unrecognized text is lowercased with whitespace collapsed. The function is idempotent.
func CanonicalizeVolume(volume string) string {
	lowered := collapseSpaces(strings.ToLower(volume))
	if lowered == "" {
		return ""
	}

	compact := strings.ReplaceAll(strings.Join(strings.Fields(lowered), ""), ",", ".")

	var amount float64
	var unit string
	if m := canonicalMultipackRegex.FindStringSubmatch(compact); m != nil {
		count, err := strconv.Atoi(m[1])
		size, ok := parseDecimal(m[2])
		if err != nil || !ok {
			return lowered
		}
		amount, unit = float64(count)*size, m[3]
	} else if m := canonicalSingleRegex.FindStringSubmatch(compact); m != nil {
		size, ok := parseDecimal(m[1])
		if !ok {
			return lowered
		}
		amount, unit = size, m[2]
	} else {
		return lowered
	}

	if alias, ok := unitAliases[unit]; ok {
		unit = alias
	}
	conv, ok := unitTable[unit]
	if !ok {
		return lowered
	}
	return formatVolumeNumber(amount*conv.factor) + conv.base
}

// ComputeSimilarity is the Jaccard index of the lowercase whitespace tokens of a and b.
// Two empty inputs are identical (1.0).
func ComputeSimilarity(a, b string) float64 {
	setA := tokenSet(strings.Fields(strings.ToLower(a)))
	setB := tokenSet(strings.Fields(strings.ToLower(b)))
	return jaccard(setA, setB)
}

func jaccard(setA, setB map[string]struct{}) float64 {
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// foldText lowercases, trims and strips diacritics ("Crème" -> "creme")
func foldText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// formatVolumeNumber keeps microgram / microliter resolution so milligram
// sizes survive conversion to grams
func formatVolumeNumber(v float64) string {
	return strconv.FormatFloat(roundTo(v, 6), 'f', -1, 64)
}
