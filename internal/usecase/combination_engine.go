package usecase

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/grocerylens/backend/internal/domain"
)

const (
	// DefaultMaxCombinations caps evaluated subsets when the caller does not set one
	DefaultMaxCombinations = 500

	// hardCombinationCeiling bounds evaluation even with pruning disabled; past
	// it the candidate stores are pruned as if pruning were on
	hardCombinationCeiling = 1 << 16
)

// SearchOptions tune a single FindBestCombinations run. The zero value runs an
// unpruned, location-unaware search ranked by coverage then total.
type SearchOptions struct {
	// Location enables distance computation and the radius filter
	Location *domain.Location
	// Catalog resolves store codes to physical locations and canonicalizes
	// locked/favorite store names
	Catalog *StoreCanonicalizer

	// AllowedStoreCodes restricts candidates before subsets are generated
	AllowedStoreCodes []string
	// MaxRadiusKm drops stores whose nearest location is farther away (0 = no limit)
	MaxRadiusKm float64

	EnablePruning   bool
	MaxCombinations int

	// Weights engages the composite scorer; nil ranks by coverage then total
	Weights        *domain.ScoringWeights
	FavoriteStores []string

	// Baseline is the per-product reference price keyed by price table key
	Baseline map[string]float64
}

// searchInput is the pre-indexed view of one list product
type searchInput struct {
	product     domain.Product
	quantity    int64
	key         string
	hasKey      bool
	locked      bool
	lockedStore string
	lockedIdx   int // index into candidates, -1 when the locked store is not a candidate
}

type evaluated struct {
	combination domain.Combination
	order       int
}

// FindBestCombinations enumerates store subsets of size 1..maxStores, assigns each
// product to its cheapest store inside the subset, and returns the best topN
// combinations. It never fails: missing data shows up as unknown assignments.
func FindBestCombinations(
	products []domain.Product,
	table *domain.PriceTable,
	maxStores int,
	topN int,
	opts SearchOptions,
) []domain.Combination {
	if len(products) == 0 {
		return []domain.Combination{}
	}
	if maxStores < 1 {
		maxStores = 1
	}
	if topN < 1 {
		topN = 1
	}
	maxCombinations := opts.MaxCombinations
	if maxCombinations <= 0 {
		maxCombinations = DefaultMaxCombinations
	}

	canonical := func(name string) string {
		if opts.Catalog != nil {
			return opts.Catalog.Canonicalize(name)
		}
		return strings.TrimSpace(name)
	}

	candidates, distances := candidateStores(table, opts)

	inputs := indexProducts(products, table, canonical)
	if opts.EnablePruning {
		candidates = pruneCandidates(candidates, inputs, table, maxStores, maxCombinations)
	} else if countSubsets(len(candidates), min(maxStores, len(candidates))) > hardCombinationCeiling {
		// Past the ceiling, keep the strongest stores rather than a prefix of subsets
		candidates = pruneCandidates(candidates, inputs, table, maxStores, hardCombinationCeiling)
	}
	for i := range inputs {
		if inputs[i].locked {
			inputs[i].lockedIdx = indexOf(candidates, inputs[i].lockedStore)
		}
	}

	favorites := make(map[string]bool, len(opts.FavoriteStores))
	for _, f := range opts.FavoriteStores {
		if code := canonical(f); code != "" {
			favorites[code] = true
		}
	}

	limit := hardCombinationCeiling
	if opts.EnablePruning {
		limit = maxCombinations
	}

	var results []evaluated
	k := min(maxStores, len(candidates))
	forEachSubset(len(candidates), k, limit, func(subset []int) {
		c := evaluateSubset(subset, candidates, inputs, table, distances, favorites, opts)
		results = append(results, evaluated{combination: c, order: len(results)})
	})

	if opts.Weights != nil {
		scoreAll(results, *opts.Weights, k)
	}
	rankCombinations(results, opts.Weights != nil)

	if len(results) > topN {
		results = results[:topN]
	}
	out := make([]domain.Combination, len(results))
	for i, r := range results {
		out[i] = r.combination
	}
	return out
}

// candidateStores collects the distinct store codes of the table, falling back to
// the catalog codes for an empty table, then applies the allow-list and radius filter.
// distances holds the nearest-location distance for stores with coordinates.
func candidateStores(table *domain.PriceTable, opts SearchOptions) ([]string, map[string]float64) {
	stores := table.Stores()
	if len(stores) == 0 && opts.Catalog != nil {
		stores = opts.Catalog.Codes()
	}

	allowed := make(map[string]bool, len(opts.AllowedStoreCodes))
	for _, code := range opts.AllowedStoreCodes {
		allowed[code] = true
	}

	distances := make(map[string]float64)
	var out []string
	for _, code := range stores {
		if len(allowed) > 0 && !allowed[code] {
			continue
		}
		if opts.Location != nil && opts.Catalog != nil {
			if _, km, ok := opts.Catalog.NearestLocation(code, *opts.Location); ok {
				if opts.MaxRadiusKm > 0 && km > opts.MaxRadiusKm {
					continue
				}
				distances[code] = km
			}
		}
		out = append(out, code)
	}
	return out, distances
}

func indexProducts(products []domain.Product, table *domain.PriceTable, canonical func(string) string) []searchInput {
	inputs := make([]searchInput, len(products))
	for i, p := range products {
		qty := p.Quantity
		if qty < 1 {
			qty = 1
		}
		key, ok := table.Lookup(p)
		lockedStore := ""
		if p.LockedStore {
			lockedStore = canonical(p.Store)
		}
		inputs[i] = searchInput{
			product:     p,
			quantity:    int64(qty),
			key:         key,
			hasKey:      ok,
			locked:      lockedStore != "",
			lockedStore: lockedStore,
			lockedIdx:   -1,
		}
	}
	return inputs
}

// pruneCandidates shrinks the store list until the number of subsets of size
// 1..maxStores fits under maxCombinations. Stores are kept by priority:
// stores required by a locked product, then coverage, then the number of
// products they are cheapest for, then summed price, then code.
func pruneCandidates(candidates []string, inputs []searchInput, table *domain.PriceTable, maxStores, maxCombinations int) []string {
	n := len(candidates)
	for n > 1 && countSubsets(n, min(maxStores, n)) > maxCombinations {
		n--
	}
	if n == len(candidates) {
		return candidates
	}

	type storeStat struct {
		code     string
		required bool
		covered  int
		wins     int
		sum      float64
	}
	stats := make([]storeStat, len(candidates))
	pos := make(map[string]int, len(candidates))
	for i, code := range candidates {
		stats[i] = storeStat{code: code}
		pos[code] = i
	}

	for _, in := range inputs {
		if in.locked {
			if i, ok := pos[in.lockedStore]; ok {
				stats[i].required = true
			}
		}
		if !in.hasKey {
			continue
		}
		cheapest := -1
		for i, code := range candidates {
			price, ok := table.Price(in.key, code)
			if !ok {
				continue
			}
			stats[i].covered++
			stats[i].sum += price
			if cheapest < 0 {
				cheapest = i
			} else if best, _ := table.Price(in.key, candidates[cheapest]); price < best {
				cheapest = i
			}
		}
		if cheapest >= 0 {
			stats[cheapest].wins++
		}
	}

	sort.SliceStable(stats, func(a, b int) bool {
		sa, sb := stats[a], stats[b]
		if sa.required != sb.required {
			return sa.required
		}
		if sa.covered != sb.covered {
			return sa.covered > sb.covered
		}
		if sa.wins != sb.wins {
			return sa.wins > sb.wins
		}
		if sa.sum != sb.sum {
			return sa.sum < sb.sum
		}
		return sa.code < sb.code
	})

	kept := make([]string, 0, n)
	for _, s := range stats[:n] {
		kept = append(kept, s.code)
	}
	sort.Strings(kept)

	log.Debug().
		Int("stores", len(candidates)).
		Int("kept", n).
		Int("max_combinations", maxCombinations).
		Strs("kept_stores", kept).
		Msg("combination search pruned")

	return kept
}

// evaluateSubset assigns every product within one store subset and aggregates the result
func evaluateSubset(
	subset []int,
	candidates []string,
	inputs []searchInput,
	table *domain.PriceTable,
	distances map[string]float64,
	favorites map[string]bool,
	opts SearchOptions,
) domain.Combination {
	stores := make([]string, len(subset))
	inSubset := make(map[int]bool, len(subset))
	for i, idx := range subset {
		stores[i] = candidates[idx]
		inSubset[idx] = true
	}

	assignment := make([]domain.Assignment, len(inputs))
	total := decimal.Zero
	baselineTotal := decimal.Zero
	baselineComplete := opts.Baseline != nil
	unknown := 0

	for i, in := range inputs {
		a := domain.Assignment{
			ProductID: in.product.ID,
			Name:      in.product.Name,
			Quantity:  int(in.quantity),
			Locked:    in.locked,
		}

		storeIdx, price, ok := pickStore(in, subset, inSubset, candidates, table)
		if ok {
			code := candidates[storeIdx]
			p := price
			a.Store = &code
			a.Price = &p
			total = total.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(in.quantity)))
		} else {
			unknown++
		}

		if baselineComplete {
			ref, has := opts.Baseline[in.key]
			if !in.hasKey || !has {
				baselineComplete = false
			} else {
				baselineTotal = baselineTotal.Add(decimal.NewFromFloat(ref).Mul(decimal.NewFromInt(in.quantity)))
			}
		}

		assignment[i] = a
	}

	totalF, _ := total.Round(2).Float64()
	c := domain.Combination{
		Stores:       stores,
		Assignment:   assignment,
		Total:        totalF,
		Coverage:     roundTo(float64(len(inputs)-unknown)/float64(len(inputs)), 2),
		UnknownCount: unknown,
	}

	// Savings only with full information; partial coverage never estimates
	if unknown == 0 && baselineComplete && baselineTotal.IsPositive() {
		savings := baselineTotal.Sub(total)
		s, _ := savings.Round(2).Float64()
		pct, _ := savings.Div(baselineTotal).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		c.Savings = &s
		c.SavingsPct = &pct
	}

	if opts.Location != nil {
		km := 0.0
		for _, code := range stores {
			km += distances[code]
		}
		km = roundTo(km, 2)
		c.TotalDistanceKm = &km
	}

	for _, code := range stores {
		if favorites[code] {
			c.FavoritesCount++
		}
	}

	return c
}

// pickStore returns the candidate index and price chosen for one product.
// A locked product may only use its recorded store; otherwise the cheapest store
// of the subset wins, ties going to the first store in subset order.
func pickStore(in searchInput, subset []int, inSubset map[int]bool, candidates []string, table *domain.PriceTable) (int, float64, bool) {
	if !in.hasKey {
		return 0, 0, false
	}

	if in.locked {
		if in.lockedIdx < 0 || !inSubset[in.lockedIdx] {
			return 0, 0, false
		}
		price, ok := table.Price(in.key, candidates[in.lockedIdx])
		if !ok {
			return 0, 0, false
		}
		return in.lockedIdx, price, true
	}

	bestIdx := -1
	bestPrice := 0.0
	for _, idx := range subset {
		price, ok := table.Price(in.key, candidates[idx])
		if !ok {
			continue
		}
		if bestIdx < 0 || price < bestPrice {
			bestIdx, bestPrice = idx, price
		}
	}
	if bestIdx < 0 {
		return 0, 0, false
	}
	return bestIdx, bestPrice, true
}

// scoreAll computes composite scores with bounds taken from the evaluated set
func scoreAll(results []evaluated, w domain.ScoringWeights, maxSubsetSize int) {
	if len(results) == 0 {
		return
	}

	bounds := domain.ScoreBounds{
		Price:      domain.Range{Min: results[0].combination.Total, Max: results[0].combination.Total},
		Distance:   domain.Range{Min: distanceOf(results[0].combination), Max: distanceOf(results[0].combination)},
		StoreCount: domain.Range{Min: 1, Max: float64(maxSubsetSize)},
	}
	for _, r := range results[1:] {
		c := r.combination
		bounds.Price.Min = min(bounds.Price.Min, c.Total)
		bounds.Price.Max = max(bounds.Price.Max, c.Total)
		d := distanceOf(c)
		bounds.Distance.Min = min(bounds.Distance.Min, d)
		bounds.Distance.Max = max(bounds.Distance.Max, d)
	}

	for i := range results {
		c := &results[i].combination
		score := ScoreCombination(domain.ScoreInputs{
			TotalPrice:      c.Total,
			TotalDistanceKm: distanceOf(*c),
			StoreCount:      len(c.Stores),
			Coverage:        c.Coverage,
			FavoritesCount:  c.FavoritesCount,
		}, w, bounds)
		c.Score = &score
	}
}

func distanceOf(c domain.Combination) float64 {
	if c.TotalDistanceKm == nil {
		return 0
	}
	return *c.TotalDistanceKm
}

// rankCombinations orders best-first. Scored runs sort by ascending score;
// otherwise by coverage desc then total asc. Generation order breaks remaining ties.
func rankCombinations(results []evaluated, scored bool) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].combination, results[j].combination
		if scored && a.Score != nil && b.Score != nil && *a.Score != *b.Score {
			return *a.Score < *b.Score
		}
		if a.Coverage != b.Coverage {
			return a.Coverage > b.Coverage
		}
		if a.Total != b.Total {
			return a.Total < b.Total
		}
		return results[i].order < results[j].order
	})
}

// forEachSubset visits k-combinations of {0..n-1} for every size 1..maxK in
// lexicographic order, stopping after limit subsets. The slice passed to fn is reused.
func forEachSubset(n, maxK, limit int, fn func([]int)) {
	visited := 0
	for k := 1; k <= maxK; k++ {
		idx := make([]int, k)
		for i := range idx {
			idx[i] = i
		}
		for {
			if visited >= limit {
				return
			}
			fn(idx)
			visited++

			// advance to the next combination
			i := k - 1
			for i >= 0 && idx[i] == n-k+i {
				i--
			}
			if i < 0 {
				break
			}
			idx[i]++
			for j := i + 1; j < k; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}
}

// countSubsets returns sum of C(n, k) for k = 1..maxK, saturating at hardCombinationCeiling+1
func countSubsets(n, maxK int) int {
	total := 0
	c := 1
	for k := 1; k <= maxK; k++ {
		c = c * (n - k + 1) / k
		total += c
		if total > hardCombinationCeiling {
			return hardCombinationCeiling + 1
		}
	}
	return total
}

func indexOf(list []string, s string) int {
	if s == "" {
		return -1
	}
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
