package dataset

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/infrastructure/storage"
	"github.com/limoonouo/Haoshi-Fruits/pkg/textnorm"
)

// LoadSeasonTable reads the seasonality table. Rows without an item are skipped,
// blank cells become "".
func LoadSeasonTable(ctx context.Context, location string, opts Options) (*storage.SeasonTable, LoadStats, error) {
	raw, err := readTable(ctx, location, opts)
	if err != nil {
		return nil, LoadStats{}, err
	}
	table, stats, err := buildSeasonTable(raw)
	if err != nil {
		return nil, stats, fmt.Errorf("%s: %w", location, err)
	}
	return table, stats, nil
}

func buildSeasonTable(raw *rawTable) (*storage.SeasonTable, LoadStats, error) {
	stats := LoadStats{Skipped: raw.skipped}
	idx := indexMap(raw.header)
	for _, col := range []string{constants.ColumnItem, constants.ColumnCounty, constants.ColumnMonth} {
		if _, ok := idx[textnorm.MatchKey(col)]; !ok {
			return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumns, col)
		}
	}

	records := make([]entity.SeasonalRecord, 0, len(raw.rows))
	for _, row := range raw.rows {
		get := cellGetter(idx, row)
		item := get(constants.ColumnItem)
		if item == "" {
			stats.Skipped++
			continue
		}
		records = append(records, entity.SeasonalRecord{
			Type:    get(constants.ColumnType),
			Item:    item,
			Variety: get(constants.ColumnVariety),
			County:  get(constants.ColumnCounty),
			Month:   normalizeMonth(get(constants.ColumnMonth)),
		})
	}
	stats.Rows = len(records)
	return storage.NewSeasonTable(records), stats, nil
}

// normalizeMonth "7.0" and "07" -> "7"; non-numeric values are kept as written
func normalizeMonth(s string) string {
	s = textnorm.MatchKey(textnorm.FoldDigits(s))
	if s == "" || s == "nan" || s == "NaN" {
		return ""
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		return s
	}
	return strconv.Itoa(int(v))
}
