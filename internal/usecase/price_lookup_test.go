package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

func newTestPriceLookup(prices *stubPrices) *PriceLookup {
	return NewPriceLookup(prices, NewFuzzyMatcher(constants.FuzzyMaxCandidates, constants.FuzzyCutoff))
}

func TestPriceLookupLatestDateOnly(t *testing.T) {
	result, tier := newTestPriceLookup(bananaPrices()).Lookup("香蕉")

	assert.Equal(t, entity.LookupFound, result.Status)
	assert.Equal(t, TierSimilarity, tier)
	assert.Contains(t, result.Text, "📅 最新交易日期：114/10/15")
	assert.Contains(t, result.Text, "🍎 查詢關鍵字：香蕉")
	assert.NotContains(t, result.Text, "114/10/14")
	assert.Equal(t, 2, strings.Count(result.Text, "🥭 品項：A1 香蕉"))
	assert.NotContains(t, result.Text, "芭樂")

	second := strings.Index(result.Text, "台北二")
	first := strings.Index(result.Text, "台北一")
	assert.True(t, second >= 0 && first > second, "rows keep table order")
}

func TestPriceLookupPercentGlyphs(t *testing.T) {
	result, _ := newTestPriceLookup(bananaPrices()).Lookup("香蕉")

	assert.Contains(t, result.Text, "📉 漲跌幅：-1.2%")
	assert.Contains(t, result.Text, "➖ 漲跌幅：0%")
	assert.Contains(t, result.Text, "💰 平均價：32 元/公斤")
	assert.Contains(t, result.Text, "📦 交易量：900 公斤")

	result, _ = newTestPriceLookup(bananaPrices()).Lookup("芭樂")
	assert.Contains(t, result.Text, "📈 漲跌幅：+3%")
	assert.Contains(t, result.Text, "💰 平均價：45.5 元/公斤")
}

func TestPriceLookupLegacySchema(t *testing.T) {
	prices := bananaPrices()
	prices.schema = entity.SchemaLegacy

	result, _ := newTestPriceLookup(prices).Lookup("香蕉")

	assert.Equal(t, entity.LookupFound, result.Status)
	assert.NotContains(t, result.Text, "漲跌幅")
	assert.Contains(t, result.Text, "📦 交易量：")
}

func TestPriceLookupNotFound(t *testing.T) {
	result, tier := newTestPriceLookup(bananaPrices()).Lookup("榴槤")

	assert.Equal(t, entity.LookupNotFound, result.Status)
	assert.Equal(t, TierNone, tier)
	assert.Equal(t, "查無「榴槤」的市場價格資料。", result.Text)
}

func TestPriceLookupUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		prices *stubPrices
	}{
		{"empty table", &stubPrices{schema: entity.SchemaCurrent}},
		{"missing columns", &stubPrices{schema: entity.SchemaUnknown, records: bananaPrices().records}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := newTestPriceLookup(tt.prices).Lookup("香蕉")
			assert.Equal(t, entity.LookupUnavailable, result.Status)
			assert.Equal(t, constants.MsgDataUnavailable, result.Text)
		})
	}

	result, _ := NewPriceLookup(nil, NewFuzzyMatcher(0, -1)).Lookup("香蕉")
	assert.Equal(t, entity.LookupUnavailable, result.Status)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "100", formatNumber(100))
	assert.Equal(t, "35.33", formatNumber(35.3333))
	assert.Equal(t, "0", formatNumber(-0.0001))
	assert.Equal(t, "-1.5", formatNumber(-1.5))
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3, "📈 漲跌幅：+3%"},
		{-1.234, "📉 漲跌幅：-1.23%"},
		{0, "➖ 漲跌幅：0%"},
		{0.004, "➖ 漲跌幅：0%"},
		{-0.004, "➖ 漲跌幅：0%"},
		{0.005, "📈 漲跌幅：+0.01%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatPercent(tt.in), "%v", tt.in)
	}
}
