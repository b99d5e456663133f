package storage

import (
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

// PriceTable immutable in-memory price table
type PriceTable struct {
	schema   entity.PriceSchema
	records  []entity.PriceRecord
	products []entity.ProductLabel
}

// NewPriceTable takes ownership of records; callers must not modify them afterwards
func NewPriceTable(schema entity.PriceSchema, records []entity.PriceRecord) *PriceTable {
	seen := make(map[string]struct{}, len(records))
	products := make([]entity.ProductLabel, 0, len(records))
	for _, rec := range records {
		if rec.Product == "" {
			continue
		}
		if _, ok := seen[rec.Product]; ok {
			continue
		}
		seen[rec.Product] = struct{}{}
		products = append(products, entity.NewProductLabel(rec))
	}
	return &PriceTable{
		schema:   schema,
		records:  records,
		products: products,
	}
}

// Schema column set the table was loaded with
func (t *PriceTable) Schema() entity.PriceSchema {
	if t == nil {
		return entity.SchemaUnknown
	}
	return t.schema
}

// Records rows in source order
func (t *PriceTable) Records() []entity.PriceRecord {
	if t == nil {
		return nil
	}
	return t.records
}

// Products distinct labels in first-seen order
func (t *PriceTable) Products() []entity.ProductLabel {
	if t == nil {
		return nil
	}
	return t.products
}

// SeasonTable immutable in-memory seasonality table
type SeasonTable struct {
	records []entity.SeasonalRecord
}

// NewSeasonTable takes ownership of records
func NewSeasonTable(records []entity.SeasonalRecord) *SeasonTable {
	return &SeasonTable{records: records}
}

// Records rows in source order
func (t *SeasonTable) Records() []entity.SeasonalRecord {
	if t == nil {
		return nil
	}
	return t.records
}
