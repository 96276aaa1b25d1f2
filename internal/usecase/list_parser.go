package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/grocerylens/backend/internal/domain"
)

// ListParser turns pasted shopping-list text into list products.
// Recognized line shapes:
//
//	2 x Lait 2% 2L @ IGA
//	Pain tranché x2 - 3,49 $
//	- [ ] Pain tranché
type ListParser struct {
	enableDebugLogging bool
}

// Compiled regex patterns for list parsing
var (
	// Bullets and checkboxes: "-", "*", "•", "[ ]", "[x]"; group 1 is the tick
	bulletPattern = regexp.MustCompile(`^\s*(?:[-*•]\s*)?(?:\[([ xX]?)\]\s*)?`)

	// Leading multiplier: "2 x ", "3× ", "2x"
	leadingQuantityPattern = regexp.MustCompile(`(?i)^(\d{1,3})\s*[x×]\s+`)

	// Trailing multiplier: " x2", " ×3"
	trailingQuantityPattern = regexp.MustCompile(`(?i)\s+[x×]\s*(\d{1,3})$`)

	// Leading bare count: "2 pommes"
	leadingCountPattern = regexp.MustCompile(`^(\d{1,3})\s+(\S+)`)

	// Store suffix: "@ IGA"
	storeSuffixPattern = regexp.MustCompile(`\s*@\s*([^@]+)$`)

	// Price: "3,99 $", "$3.99", "3.99$"
	pricePattern = regexp.MustCompile(`\s*[-–]?\s*(?:\$\s*(\d+(?:[.,]\d{1,2})?)|(\d+[.,]\d{1,2})\s*\$)\s*$`)

	// Multi-word marketing phrases: "format familial", "format économique"
	noisePhrasePattern = regexp.MustCompile(`(?i)\bformat\s+(?:familial|économique|economique|géant|geant)\b`)

	// Orphaned separators left at either end
	dangling = regexp.MustCompile(`^[\s,;:\-–]+|[\s,;:\-–]+$`)
)

// listNoiseWords are marketing terms that never identify a product
var listNoiseWords = map[string]bool{
	"nouveau":  true,
	"nouvelle": true,
	"new":      true,
	"promo":    true,
	"rabais":   true,
	"special":  true,
	"spécial":  true,
	"aubaine":  true,
	"sale":     true,
}

// NewListParser creates a new list parser
func NewListParser(enableDebugLogging bool) *ListParser {
	return &ListParser{
		enableDebugLogging: enableDebugLogging,
	}
}

// Parse splits text into lines and parses each one. Blank, comment ("#")
// and ticked ("[x]") lines are skipped.
func (p *ListParser) Parse(text string) []domain.Product {
	products := []domain.Product{}
	for _, line := range strings.Split(text, "\n") {
		if product, ok := p.ParseLine(line); ok {
			products = append(products, product)
		}
	}
	return products
}

// ParseLine parses a single list line. ok is false when nothing product-like remains.
func (p *ListParser) ParseLine(line string) (domain.Product, bool) {
	original := line
	cleaned := strings.TrimSpace(line)
	if cleaned == "" || strings.HasPrefix(cleaned, "#") {
		return domain.Product{}, false
	}

	// Ticked items are already in the cart
	if m := bulletPattern.FindStringSubmatch(cleaned); m != nil {
		if strings.EqualFold(m[1], "x") {
			return domain.Product{}, false
		}
		cleaned = cleaned[len(m[0]):]
	}

	// Store suffix comes off first so a price inside the store name is not read
	store := ""
	if m := storeSuffixPattern.FindStringSubmatch(cleaned); m != nil {
		store = strings.TrimSpace(m[1])
		cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(m[0])])
	}

	var price *float64
	if m := pricePattern.FindStringSubmatch(cleaned); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if v, ok := parseDecimal(raw); ok {
			price = &v
			cleaned = strings.TrimSpace(cleaned[:len(cleaned)-len(m[0])])
		}
	}

	quantity := 1
	switch {
	case leadingQuantityPattern.MatchString(cleaned):
		m := leadingQuantityPattern.FindStringSubmatch(cleaned)
		quantity, _ = strconv.Atoi(m[1])
		cleaned = cleaned[len(m[0]):]
	case trailingQuantityPattern.MatchString(cleaned):
		m := trailingQuantityPattern.FindStringSubmatch(cleaned)
		quantity, _ = strconv.Atoi(m[1])
		cleaned = cleaned[:len(cleaned)-len(m[0])]
	default:
		// "2 pommes" is a count, "2 L lait" is a size
		if m := leadingCountPattern.FindStringSubmatch(cleaned); m != nil && !isUnitWord(m[2]) {
			quantity, _ = strconv.Atoi(m[1])
			cleaned = strings.TrimPrefix(cleaned, m[1])
		}
	}

	cleaned = removeListNoise(cleaned)
	cleaned = dangling.ReplaceAllString(cleaned, "")
	cleaned = collapseSpaces(cleaned)
	if cleaned == "" {
		return domain.Product{}, false
	}

	product := domain.NewProduct(cleaned, "", "", quantity)
	if store != "" {
		product.Store = store
	}
	if price != nil {
		product.Price = price
		product.PriceSource = domain.PriceSourceManual
	}
	ApplyNameKey(product)

	if p.enableDebugLogging {
		log.Debug().
			Str("input", original).
			Str("name", product.Name).
			Int("quantity", product.Quantity).
			Str("store", product.Store).
			Msg("list line parsed")
	}

	return *product, true
}

// isUnitWord reports whether word is a size unit ("l", "kg", "litres", ...)
func isUnitWord(word string) bool {
	w := strings.ToLower(strings.Trim(word, ",.;:"))
	if alias, ok := unitAliases[w]; ok {
		w = alias
	}
	_, ok := unitTable[w]
	return ok
}

// removeListNoise drops marketing words, keeping the original casing of the rest
func removeListNoise(s string) string {
	words := strings.Fields(noisePhrasePattern.ReplaceAllString(s, " "))
	kept := words[:0]
	for _, word := range words {
		check := strings.ToLower(strings.Trim(word, ",.!?;:-'\""))
		if !listNoiseWords[check] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}
