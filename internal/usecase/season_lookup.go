package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/repository"
	"github.com/limoonouo/Haoshi-Fruits/pkg/textnorm"
)

// SeasonLookup month, region and crop-period queries over the seasonality table
type SeasonLookup struct {
	seasons    repository.SeasonRepository
	aliases    *AliasResolver
	typeOrder  []string
	itemCap    int
	exactMonth bool
}

// SeasonLookupOptions tuning knobs for SeasonLookup
type SeasonLookupOptions struct {
	TypeOrder []string
	// ItemCap distinct items per group, <=0 lists everything
	ItemCap int
	// ExactMonth compares the month as a whole value instead of a substring ("7" no longer matches "17")
	ExactMonth bool
}

// NewSeasonLookup seasons may be nil when no table could be loaded
func NewSeasonLookup(seasons repository.SeasonRepository, aliases *AliasResolver, opts SeasonLookupOptions) *SeasonLookup {
	order := opts.TypeOrder
	if order == nil {
		order = constants.PreferredTypeOrder
	}
	return &SeasonLookup{
		seasons:    seasons,
		aliases:    aliases,
		typeOrder:  order,
		itemCap:    opts.ItemCap,
		exactMonth: opts.ExactMonth,
	}
}

func (l *SeasonLookup) records() ([]entity.SeasonalRecord, bool) {
	if l.seasons == nil {
		return nil, false
	}
	rows := l.seasons.Records()
	return rows, len(rows) > 0
}

func unavailableSeason() entity.LookupResult {
	return entity.LookupResult{Status: entity.LookupUnavailable, Text: constants.MsgSeasonUnavailable}
}

// ByMonth items in season for month, optionally limited to one product type
func (l *SeasonLookup) ByMonth(month int, typ string) entity.LookupResult {
	rows, ok := l.records()
	if !ok {
		return unavailableSeason()
	}

	want := strconv.Itoa(month)
	var matched []entity.SeasonalRecord
	for _, row := range rows {
		if !l.monthMatches(row.Month, want) || !typeMatches(row.Type, typ) {
			continue
		}
		matched = append(matched, row)
	}

	label := fmt.Sprintf("%d 月", month)
	if typ != "" {
		label += typ
	}
	if len(matched) == 0 {
		return entity.LookupResult{Status: entity.LookupNotFound, Text: fmt.Sprintf("查無 %s的產季資料。", label)}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s當令農產品：\n", label)
	writeTypeGroups(&b, GroupByType(matched, l.typeOrder, l.itemCap))
	return entity.LookupResult{Status: entity.LookupFound, Text: strings.TrimRight(b.String(), "\n")}
}

func (l *SeasonLookup) monthMatches(stored, want string) bool {
	if l.exactMonth {
		return stored == want
	}
	return strings.Contains(stored, want)
}

func typeMatches(rowType, typ string) bool {
	return typ == "" || strings.Contains(rowType, typ)
}

// ByRegion union of the rows of every county; with a type the items are listed directly
func (l *SeasonLookup) ByRegion(counties []string, typ string) entity.LookupResult {
	rows, ok := l.records()
	if !ok {
		return unavailableSeason()
	}

	names := uniqueStrings(counties)
	keys := make([]string, 0, len(names))
	for _, name := range names {
		if key := textnorm.FoldCounty(name); key != "" {
			keys = append(keys, key)
		}
	}

	var matched []entity.SeasonalRecord
	for _, row := range rows {
		if !typeMatches(row.Type, typ) {
			continue
		}
		county := textnorm.FoldCounty(row.County)
		for _, key := range keys {
			if strings.Contains(county, key) {
				matched = append(matched, row)
				break
			}
		}
	}

	region := strings.Join(names, "、")
	if len(matched) == 0 {
		return entity.LookupResult{Status: entity.LookupNotFound, Text: fmt.Sprintf("查無「%s」的%s產季資料。", region, typ)}
	}

	var b strings.Builder
	if typ != "" {
		fmt.Fprintf(&b, "📍 %s 的%s：\n", region, typ)
		b.WriteString(strings.Join(DistinctItems(matched, l.itemCap), "、"))
		return entity.LookupResult{Status: entity.LookupFound, Text: b.String()}
	}
	fmt.Fprintf(&b, "📍 %s 的特產：\n", region)
	writeTypeGroups(&b, GroupByType(matched, l.typeOrder, l.itemCap))
	return entity.LookupResult{Status: entity.LookupFound, Text: strings.TrimRight(b.String(), "\n")}
}

func writeTypeGroups(b *strings.Builder, groups []TypeGroup) {
	for _, g := range groups {
		typ := g.Type
		if typ == "" {
			typ = "未分類"
		}
		fmt.Fprintf(b, "\n【%s】\n%s\n", typ, strings.Join(g.Items, "、"))
	}
}

// CropPeriods one block per (type, item, variety, county) for each term.
// Terms are independent; if none of them matches the whole reply is the catch-all message.
func (l *SeasonLookup) CropPeriods(terms []string) entity.LookupResult {
	rows, ok := l.records()
	if !ok {
		return unavailableSeason()
	}

	var b strings.Builder
	found := false
	for _, raw := range terms {
		term := textnorm.Normalize(raw)
		if term == "" {
			continue
		}
		matched := matchItems(rows, term)
		if len(matched) == 0 {
			if alias := l.aliases.ResolveCrop(term); alias != term {
				matched = matchItems(rows, alias)
			}
		}
		if len(matched) == 0 {
			fmt.Fprintf(&b, "❌ 查無「%s」的產季資料。\n\n", term)
			continue
		}
		found = true
		for _, g := range GroupByPeriod(matched) {
			writePeriodGroup(&b, g)
		}
	}

	if !found {
		return entity.LookupResult{Status: entity.LookupNotFound, Text: constants.MsgCatchAll}
	}
	return entity.LookupResult{Status: entity.LookupFound, Text: strings.TrimRight(b.String(), "\n")}
}

func matchItems(rows []entity.SeasonalRecord, term string) []entity.SeasonalRecord {
	key := textnorm.MatchKey(term)
	if key == "" {
		return nil
	}
	var out []entity.SeasonalRecord
	for _, row := range rows {
		if strings.Contains(textnorm.MatchKey(row.Item), key) {
			out = append(out, row)
		}
	}
	return out
}

func writePeriodGroup(b *strings.Builder, g PeriodGroup) {
	name := g.Item
	if g.Variety != "" {
		name += "（" + g.Variety + "）"
	}
	fmt.Fprintf(b, "🌱 %s\n", name)
	if g.Type != "" {
		fmt.Fprintf(b, "🏷️ 類別：%s\n", g.Type)
	}
	fmt.Fprintf(b, "📍 產地：%s\n", g.County)
	if len(g.Months) > 0 {
		fmt.Fprintf(b, "🗓️ 產期：%s 月\n", strings.Join(g.Months, ", "))
	}
	b.WriteString(blockSeparator)
	b.WriteString("\n\n")
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
