package usecase

import (
	"sort"
	"strings"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/repository"
	"github.com/limoonouo/Haoshi-Fruits/pkg/textnorm"
)

// MatchTier which strategy produced a fuzzy match
type MatchTier int

const (
	TierNone MatchTier = iota
	TierSimilarity
	TierNameOnly
	TierClean
)

func (t MatchTier) String() string {
	switch t {
	case TierSimilarity:
		return "similarity"
	case TierNameOnly:
		return "name_only"
	case TierClean:
		return "clean"
	default:
		return "none"
	}
}

// FuzzyMatcher similarity ranking over product labels with substring fallbacks
type FuzzyMatcher struct {
	limit  int
	cutoff float64
}

// NewFuzzyMatcher limit<=0 or cutoff<0 fall back to the defaults
func NewFuzzyMatcher(limit int, cutoff float64) *FuzzyMatcher {
	if limit <= 0 {
		limit = constants.FuzzyMaxCandidates
	}
	if cutoff < 0 {
		cutoff = constants.FuzzyCutoff
	}
	return &FuzzyMatcher{limit: limit, cutoff: cutoff}
}

type scoredLabel struct {
	label string
	score float64
}

// Candidates up to limit labels scoring above the cutoff, best first; ties keep label order
func (m *FuzzyMatcher) Candidates(term string, labels []entity.ProductLabel) []string {
	key := strings.ToLower(textnorm.MatchKey(term))
	if key == "" {
		return nil
	}

	scored := make([]scoredLabel, 0, len(labels))
	for _, label := range labels {
		score := similarity(key, label.Key)
		if nameOnly := similarity(key, label.NameOnlyKey); nameOnly > score {
			score = nameOnly
		}
		if score > m.cutoff {
			scored = append(scored, scoredLabel{label: label.Label, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > m.limit {
		scored = scored[:m.limit]
	}

	out := make([]string, len(scored))
	for i, s := range scored {
		out[i] = s.label
	}
	return out
}

// Match resolves term to price rows in source order.
// Substring tiers run only when the similarity tier finds nothing.
func (m *FuzzyMatcher) Match(term string, prices repository.PriceRepository) ([]entity.PriceRecord, MatchTier) {
	term = textnorm.Normalize(term)
	if term == "" {
		return nil, TierNone
	}
	records := prices.Records()

	if candidates := m.Candidates(term, prices.Products()); len(candidates) > 0 {
		wanted := make(map[string]struct{}, len(candidates))
		for _, c := range candidates {
			wanted[c] = struct{}{}
		}
		return filterPrices(records, func(rec entity.PriceRecord) bool {
			_, ok := wanted[rec.Product]
			return ok
		}), TierSimilarity
	}

	lowered := strings.ToLower(term)
	if rows := filterPrices(records, func(rec entity.PriceRecord) bool {
		return strings.Contains(strings.ToLower(rec.ProductNameOnly), lowered)
	}); len(rows) > 0 {
		return rows, TierNameOnly
	}

	cleanKey := strings.ToLower(textnorm.MatchKey(term))
	if rows := filterPrices(records, func(rec entity.PriceRecord) bool {
		return strings.Contains(strings.ToLower(rec.ProductClean), cleanKey)
	}); len(rows) > 0 {
		return rows, TierClean
	}
	return nil, TierNone
}

func filterPrices(records []entity.PriceRecord, keep func(entity.PriceRecord) bool) []entity.PriceRecord {
	var out []entity.PriceRecord
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// similarity 1 - levenshtein/maxLen over runes, in [0,1]
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(ra, rb))/float64(longest)
}

func editDistance(ra, rb []rune) int {
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	if len(rb) > len(ra) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i, raChar := range ra {
		curr[0] = i + 1
		for j, rbChar := range rb {
			cost := 0
			if raChar != rbChar {
				cost = 1
			}
			curr[j+1] = min(prev[j+1]+1, curr[j]+1, prev[j]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
