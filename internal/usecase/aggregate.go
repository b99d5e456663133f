package usecase

import (
	"sort"
	"strconv"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

// PeriodGroup rows sharing (type, item, variety, county) with their merged months
type PeriodGroup struct {
	Type    string
	Item    string
	Variety string
	County  string
	Months  []string
}

type periodKey struct {
	typ, item, variety, county string
}

// GroupByPeriod groups in first-seen order; months are deduplicated and sorted
// so the result does not depend on row order within a group.
func GroupByPeriod(rows []entity.SeasonalRecord) []PeriodGroup {
	index := make(map[periodKey]int)
	var groups []PeriodGroup
	seenMonths := make([]map[string]struct{}, 0)

	for _, row := range rows {
		key := periodKey{typ: row.Type, item: row.Item, variety: row.Variety, county: row.County}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, PeriodGroup{Type: row.Type, Item: row.Item, Variety: row.Variety, County: row.County})
			seenMonths = append(seenMonths, make(map[string]struct{}))
		}
		if row.Month == "" {
			continue
		}
		if _, dup := seenMonths[i][row.Month]; dup {
			continue
		}
		seenMonths[i][row.Month] = struct{}{}
		groups[i].Months = append(groups[i].Months, row.Month)
	}

	for i := range groups {
		SortMonths(groups[i].Months)
	}
	return groups
}

// SortMonths numeric months ascending, then anything unparseable in lexical order
func SortMonths(months []string) {
	sort.SliceStable(months, func(i, j int) bool {
		a, errA := strconv.Atoi(months[i])
		b, errB := strconv.Atoi(months[j])
		switch {
		case errA == nil && errB == nil:
			if a != b {
				return a < b
			}
			return months[i] < months[j]
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return months[i] < months[j]
		}
	})
}

// TypeGroup distinct items of one product type
type TypeGroup struct {
	Type  string
	Items []string
}

// GroupByType lists types in preferred order, then unknown types in encounter order.
// Items keep first-seen order and are cut at limit (limit<=0 means no cut).
func GroupByType(rows []entity.SeasonalRecord, preferred []string, limit int) []TypeGroup {
	byType := make(map[string][]entity.SeasonalRecord)
	var encounter []string
	for _, row := range rows {
		if _, ok := byType[row.Type]; !ok {
			encounter = append(encounter, row.Type)
		}
		byType[row.Type] = append(byType[row.Type], row)
	}

	var groups []TypeGroup
	used := make(map[string]struct{}, len(byType))
	appendGroup := func(typ string) {
		if _, done := used[typ]; done {
			return
		}
		typeRows, ok := byType[typ]
		if !ok {
			return
		}
		used[typ] = struct{}{}
		groups = append(groups, TypeGroup{Type: typ, Items: DistinctItems(typeRows, limit)})
	}
	for _, typ := range preferred {
		appendGroup(typ)
	}
	for _, typ := range encounter {
		appendGroup(typ)
	}
	return groups
}

// DistinctItems item names in first-seen order, at most limit of them (limit<=0 means all)
func DistinctItems(rows []entity.SeasonalRecord, limit int) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, row := range rows {
		if row.Item == "" {
			continue
		}
		if _, ok := seen[row.Item]; ok {
			continue
		}
		seen[row.Item] = struct{}{}
		items = append(items, row.Item)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items
}
