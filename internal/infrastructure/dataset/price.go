package dataset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/infrastructure/storage"
	"github.com/limoonouo/Haoshi-Fruits/pkg/textnorm"
)

// LoadStats row counters of one load
type LoadStats struct {
	Rows      int
	Skipped   int
	Recovered int // numeric cells replaced by 0
}

var legacyPriceColumns = []string{
	constants.ColumnDate,
	constants.ColumnMarket,
	constants.ColumnProduct,
	constants.ColumnAveragePrice,
	constants.ColumnTradeVolume,
}

// LoadPriceTable reads the daily market table and validates its schema once.
// Rows with an unreadable date are skipped; unreadable numbers become 0.
func LoadPriceTable(ctx context.Context, location string, opts Options) (*storage.PriceTable, LoadStats, error) {
	raw, err := readTable(ctx, location, opts)
	if err != nil {
		return nil, LoadStats{}, err
	}
	table, stats, err := buildPriceTable(raw)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", location, err)
	}
	return table, stats, nil
}

func buildPriceTable(raw *rawTable) (*storage.PriceTable, LoadStats, error) {
	stats := LoadStats{Skipped: raw.skipped}
	idx := indexMap(raw.header)

	schema := detectPriceSchema(idx)
	if schema == entity.SchemaUnknown {
		return nil, stats, fmt.Errorf("%w: need %s", ErrMissingColumns, strings.Join(legacyPriceColumns, ", "))
	}

	records := make([]entity.PriceRecord, 0, len(raw.rows))
	for _, row := range raw.rows {
		get := cellGetter(idx, row)

		dateLabel := get(constants.ColumnDate)
		date, err := parseTradeDate(dateLabel)
		if err != nil || get(constants.ColumnProduct) == "" {
			stats.Skipped++
			continue
		}

		avg, ok := parseDecimal(get(constants.ColumnAveragePrice))
		if !ok {
			stats.Recovered++
		}
		volume, ok := parseDecimal(get(constants.ColumnTradeVolume))
		if !ok {
			stats.Recovered++
		}
		var percent float64
		if schema == entity.SchemaCurrent {
			if percent, ok = parseDecimal(get(constants.ColumnPercentChange)); !ok {
				stats.Recovered++
			}
		}

		records = append(records, entity.NewPriceRecord(
			date, dateLabel, get(constants.ColumnMarket), get(constants.ColumnProduct), avg, percent, volume,
		))
	}
	stats.Rows = len(records)
	return storage.NewPriceTable(schema, records), stats, nil
}

func detectPriceSchema(idx map[string]int) entity.PriceSchema {
	for _, col := range legacyPriceColumns {
		if _, ok := idx[textnorm.MatchKey(col)]; !ok {
			return entity.SchemaUnknown
		}
	}
	if _, ok := idx[textnorm.MatchKey(constants.ColumnPercentChange)]; ok {
		return entity.SchemaCurrent
	}
	return entity.SchemaLegacy
}

// indexMap header key -> column; the first occurrence of a duplicate header wins
func indexMap(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := textnorm.MatchKey(textnorm.CleanHeader(h))
		if key == "" {
			continue
		}
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

func cellGetter(idx map[string]int, row []string) func(string) string {
	return func(name string) string {
		i, ok := idx[textnorm.MatchKey(name)]
		if !ok || i < 0 || i >= len(row) {
			return ""
		}
		return textnorm.Normalize(row[i])
	}
}

// parseDecimal accepts thousands separators, a leading plus and a trailing percent sign.
// Anything else yields (0, false).
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "+")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseTradeDate reads ROC (114/10/15, 1141015) and Gregorian (2025-10-15, 20251015) dates
func parseTradeDate(s string) (time.Time, error) {
	s = textnorm.MatchKey(textnorm.FoldDigits(s))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	var parts []string
	switch {
	case strings.ContainsAny(s, "/-."):
		parts = strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' || r == '.' })
	case len(s) == 7:
		parts = []string{s[:3], s[3:5], s[5:]}
	case len(s) == 8:
		parts = []string{s[:4], s[4:6], s[6:]}
	default:
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("unrecognized date %q", s)
		}
		nums[i] = n
	}
	year, month, day := nums[0], nums[1], nums[2]
	if year < 1911 {
		year += 1911
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("date out of range %q", s)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("date out of range %q", s)
	}
	return t, nil
}
