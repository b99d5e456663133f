package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

func productLabels(names ...string) []entity.ProductLabel {
	out := make([]entity.ProductLabel, len(names))
	for i, name := range names {
		out[i] = entity.NewProductLabel(entity.NewPriceRecord(time.Time{}, "", "", name, 0, 0, 0))
	}
	return out
}

func TestCandidatesRankedAndBounded(t *testing.T) {
	m := NewFuzzyMatcher(5, 0.3)
	labels := []string{"香蕉1", "香蕉2", "香蕉3", "香蕉4", "香蕉5", "香蕉6", "T1 鳳梨", "香蕉"}

	got := m.Candidates("香蕉", productLabels(labels...))

	require.Len(t, got, 5)
	assert.Equal(t, []string{"香蕉", "香蕉1", "香蕉2", "香蕉3", "香蕉4"}, got, "best first, ties in label order")
}

func TestCandidatesUseNameOnlyKey(t *testing.T) {
	m := NewFuzzyMatcher(5, 0.3)

	got := m.Candidates("香蕉", productLabels("A1 香蕉", "A2 香蕉-芭蕉", "P1 芭樂-珍珠芭", "T1 鳳梨"))

	assert.Equal(t, []string{"A1 香蕉", "A2 香蕉-芭蕉"}, got)
}

func TestCandidatesScoreStoredKeys(t *testing.T) {
	m := NewFuzzyMatcher(5, 0.3)
	labels := []entity.ProductLabel{
		{Label: "X9 外銷品", Key: "x9外銷品", NameOnlyKey: "香蕉"},
		{Label: "香蕉", Key: "", NameOnlyKey: ""},
	}

	// the label text is not re-derived; only the stored keys are scored
	assert.Equal(t, []string{"X9 外銷品"}, m.Candidates("香蕉", labels))
}

func TestCandidatesScoresDescending(t *testing.T) {
	m := NewFuzzyMatcher(5, 0.3)
	labels := []string{"鳳梨釋迦", "鳳梨", "鳳梨-金鑽", "金鑽鳳梨", "梨"}

	got := m.Candidates("鳳梨", productLabels(labels...))
	require.NotEmpty(t, got)
	require.LessOrEqual(t, len(got), 5)

	prev := 2.0
	for _, label := range got {
		score := similarity("鳳梨", label)
		assert.LessOrEqual(t, score, prev, label)
		prev = score
	}
}

func TestMatchTiers(t *testing.T) {
	m := NewFuzzyMatcher(5, 0.3)
	day := tradeDay(2025, 10, 15)
	prices := &stubPrices{
		schema: entity.SchemaCurrent,
		records: []entity.PriceRecord{
			entity.NewPriceRecord(day, "114/10/15", "台北一", "A1 香蕉-芭蕉王", 30, 0, 1),
			entity.NewPriceRecord(day, "114/10/15", "台北一", "72 牛　番茄特級品種外銷專用", 50, 0, 1),
		},
	}

	rows, tier := m.Match("香蕉-芭蕉王", prices)
	assert.Equal(t, TierSimilarity, tier)
	assert.Len(t, rows, 1)

	rows, tier = m.Match("蕉", prices)
	assert.Equal(t, TierNameOnly, tier)
	require.Len(t, rows, 1)
	assert.Equal(t, "A1 香蕉-芭蕉王", rows[0].Product)

	rows, tier = m.Match("牛番茄", prices)
	assert.Equal(t, TierClean, tier)
	require.Len(t, rows, 1)
	assert.Equal(t, "72 牛　番茄特級品種外銷專用", rows[0].Product)

	rows, tier = m.Match("榴槤", prices)
	assert.Equal(t, TierNone, tier)
	assert.Empty(t, rows)

	rows, tier = m.Match("  ", prices)
	assert.Equal(t, TierNone, tier)
	assert.Empty(t, rows)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("香蕉", "香蕉"), 1e-9)
	assert.InDelta(t, 0.0, similarity("香蕉", "鳳梨"), 1e-9)
	assert.InDelta(t, 0.5, similarity("香蕉", "香"), 1e-9)
	assert.InDelta(t, 1.0, similarity("", ""), 1e-9)
	assert.Equal(t, 3, editDistance([]rune("kitten"), []rune("sitting")))
}
