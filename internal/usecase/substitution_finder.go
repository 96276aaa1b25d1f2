package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/grocerylens/backend/internal/domain"
)

// Default substitution thresholds
const (
	defaultMinSimilarity = 0.4
	defaultMinSavings    = 0.50
	defaultMaxResults    = 5
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

	// Size/format tokens ("500ml", "2x1l", "12oz") are not part of a product's identity
	sizeTokenRegex = regexp.MustCompile(`^\d+(?:[.,]\d+)?(?:x\d+(?:[.,]\d+)?)?(?:ml|cl|l|kg|mg|g|oz|lbs?|unites?|pk|ct)?$`)
)

// substitutionStopWords covers French and English filler plus size/packaging noise
var substitutionStopWords = map[string]bool{
	// French
	"de": true, "du": true, "des": true, "la": true, "le": true, "les": true,
	"et": true, "au": true, "aux": true, "en": true, "a": true, "avec": true,
	"sans": true, "pour": true, "un": true, "une": true, "d": true, "l": true,
	// English
	"the": true, "and": true, "of": true, "with": true, "for": true, "an": true,
	// Size and packaging
	"ml": true, "cl": true, "litre": true, "litres": true, "g": true, "kg": true,
	"oz": true, "lb": true, "lbs": true, "unite": true, "unites": true,
	"format": true, "paquet": true, "pack": true, "pqt": true, "ch": true,
	"bouteille": true, "boite": true, "sac": true, "caisse": true,
}

// SubstitutionConfig holds configuration for the substitution finder
type SubstitutionConfig struct {
	MinSimilarity float64
	MinSavings    float64
	MaxResults    int
}

// SubstitutionFinder looks for cheaper near-equivalents of a product in a price table
type SubstitutionFinder struct {
	minSimilarity float64
	minSavings    float64
	maxResults    int
}

// DefaultSubstitutionConfig returns the default thresholds
func DefaultSubstitutionConfig() SubstitutionConfig {
	return SubstitutionConfig{
		MinSimilarity: defaultMinSimilarity,
		MinSavings:    defaultMinSavings,
		MaxResults:    defaultMaxResults,
	}
}

// NewSubstitutionFinder creates a finder. A zero threshold disables that
// check; negative thresholds and a non-positive MaxResults fall back to defaults.
func NewSubstitutionFinder(config SubstitutionConfig) *SubstitutionFinder {
	minSim := config.MinSimilarity
	if minSim < 0 {
		minSim = defaultMinSimilarity
	}
	minSavings := config.MinSavings
	if minSavings < 0 {
		minSavings = defaultMinSavings
	}
	maxResults := config.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	return &SubstitutionFinder{
		minSimilarity: minSim,
		minSavings:    minSavings,
		maxResults:    maxResults,
	}
}

// FindSubstitutions returns up to maxResults cheaper alternatives to product,
// sorted by savings desc then similarity desc. Comparison is on raw price;
// combine with ComputeUnitPrice for unit-aware ranking.
// The current price is the product's recorded price, or its cheapest table price.
func (f *SubstitutionFinder) FindSubstitutions(product domain.Product, table *domain.PriceTable) []domain.Alternative {
	alternatives := []domain.Alternative{}

	sourceTokens := tokenSet(tokenize(product.Name))
	if len(sourceTokens) == 0 {
		return alternatives
	}

	ownKey, _ := table.Lookup(product)
	ownNameKey := product.NameKey
	if ownNameKey == "" {
		ownNameKey = NormalizeProductName(product.Name, product.Brand, product.Volume).NameKey
	}

	current, ok := currentPrice(product, table, ownKey)
	if !ok {
		return alternatives
	}
	currentDec := decimal.NewFromFloat(current)

	for _, name := range table.Products() {
		if name == ownKey || name == ownNameKey {
			continue
		}

		similarity := jaccard(sourceTokens, tokenSet(tokenize(name)))

		store, price, ok := cheapestStore(table.StorePrices(name))
		if !ok {
			continue
		}

		savingsDec := currentDec.Sub(decimal.NewFromFloat(price)).Round(2)
		savings, _ := savingsDec.Float64()
		if !f.qualifies(similarity, savings) {
			continue
		}

		pct := 0.0
		if currentDec.IsPositive() {
			pct, _ = savingsDec.Div(currentDec).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		}

		alternatives = append(alternatives, domain.Alternative{
			Name:       name,
			Price:      price,
			Store:      store,
			Savings:    savings,
			SavingsPct: pct,
			Similarity: roundTo(similarity, 4),
		})
	}

	sort.SliceStable(alternatives, func(i, j int) bool {
		a, b := alternatives[i], alternatives[j]
		if a.Savings != b.Savings {
			return a.Savings > b.Savings
		}
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		return a.Name < b.Name
	})

	if len(alternatives) > f.maxResults {
		alternatives = alternatives[:f.maxResults]
	}
	return alternatives
}

// qualifies applies the similarity floor and the minimum absolute saving
func (f *SubstitutionFinder) qualifies(similarity, savings float64) bool {
	return similarity >= f.minSimilarity && savings >= f.minSavings
}

func currentPrice(product domain.Product, table *domain.PriceTable, ownKey string) (float64, bool) {
	if product.Price != nil && *product.Price >= 0 {
		return *product.Price, true
	}
	if ownKey == "" {
		return 0, false
	}
	_, price, ok := cheapestStore(table.StorePrices(ownKey))
	return price, ok
}

// cheapestStore returns the lowest price; ties resolve to the alphabetically first store
func cheapestStore(prices map[string]float64) (string, float64, bool) {
	stores := make([]string, 0, len(prices))
	for s := range prices {
		stores = append(stores, s)
	}
	sort.Strings(stores)

	best, bestPrice, found := "", 0.0, false
	for _, s := range stores {
		if p := prices[s]; !found || p < bestPrice {
			best, bestPrice, found = s, p, true
		}
	}
	return best, bestPrice, found
}

// tokenize is the loose tokenizer used for alternative-finding: folded lowercase
// words without punctuation, stop words, size tokens or bare numbers.
// Identity matching uses NormalizeProductName instead.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(foldText(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if substitutionStopWords[word] {
			continue
		}
		if isNumeric(word) || sizeTokenRegex.MatchString(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
