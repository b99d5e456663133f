package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/repository"
)

const blockSeparator = "------------------------"

// PriceLookup latest-day market prices for a crop term
type PriceLookup struct {
	prices  repository.PriceRepository
	matcher *FuzzyMatcher
}

// NewPriceLookup prices may be nil when no table could be loaded
func NewPriceLookup(prices repository.PriceRepository, matcher *FuzzyMatcher) *PriceLookup {
	return &PriceLookup{prices: prices, matcher: matcher}
}

// Lookup keeps only the rows of the most recent trading day among the matches, in table order
func (l *PriceLookup) Lookup(term string) (entity.LookupResult, MatchTier) {
	if l.prices == nil || len(l.prices.Records()) == 0 || l.prices.Schema() == entity.SchemaUnknown {
		return entity.LookupResult{Status: entity.LookupUnavailable, Text: constants.MsgDataUnavailable}, TierNone
	}

	rows, tier := l.matcher.Match(term, l.prices)
	if len(rows) == 0 {
		return entity.LookupResult{
			Status: entity.LookupNotFound,
			Text:   fmt.Sprintf("查無「%s」的市場價格資料。", term),
		}, tier
	}

	latest := rows[0].Date
	for _, row := range rows[1:] {
		if row.Date.After(latest) {
			latest = row.Date
		}
	}
	var recent []entity.PriceRecord
	for _, row := range rows {
		if row.Date.Equal(latest) {
			recent = append(recent, row)
		}
	}

	withPercent := l.prices.Schema() == entity.SchemaCurrent
	var b strings.Builder
	fmt.Fprintf(&b, "📅 最新交易日期：%s\n🍎 查詢關鍵字：%s\n\n", recent[0].DateLabel, term)
	for _, row := range recent {
		fmt.Fprintf(&b, "🥭 品項：%s\n", row.Product)
		fmt.Fprintf(&b, "🏬 市場：%s\n", row.Market)
		fmt.Fprintf(&b, "💰 平均價：%s 元/公斤\n", formatNumber(row.AveragePrice))
		if withPercent {
			b.WriteString(formatPercent(row.PercentChange))
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "📦 交易量：%s 公斤\n", formatNumber(row.TradeVolume))
		b.WriteString(blockSeparator)
		b.WriteString("\n")
	}
	return entity.LookupResult{Status: entity.LookupFound, Text: strings.TrimRight(b.String(), "\n")}, tier
}

// formatPercent glyph follows the sign of the value as printed
func formatPercent(p float64) string {
	p = math.Round(p*100) / 100
	switch {
	case p > 0:
		return "📈 漲跌幅：+" + formatNumber(p) + "%"
	case p < 0:
		return "📉 漲跌幅：" + formatNumber(p) + "%"
	default:
		return "➖ 漲跌幅：0%"
	}
}

// formatNumber at most two decimals, trailing zeros dropped
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
