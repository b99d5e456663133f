package entity

import (
	"strings"
	"time"

	"github.com/limoonouo/Haoshi-Fruits/pkg/textnorm"
)

// PriceSchema which column set a price table carries
type PriceSchema int

const (
	// SchemaUnknown required columns missing
	SchemaUnknown PriceSchema = iota
	// SchemaLegacy older export without the percent-change column
	SchemaLegacy
	// SchemaCurrent export with the percent-change column
	SchemaCurrent
)

func (s PriceSchema) String() string {
	switch s {
	case SchemaLegacy:
		return "legacy"
	case SchemaCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// PriceRecord one row of the daily wholesale market table
type PriceRecord struct {
	Date          time.Time
	DateLabel     string
	Market        string
	Product       string
	AveragePrice  float64
	PercentChange float64
	TradeVolume   float64

	// Derived once from Product by NewPriceRecord
	ProductNameOnly string
	ProductClean    string
}

// NewPriceRecord builds a price row and computes its derived product keys
func NewPriceRecord(date time.Time, dateLabel, market, product string, avgPrice, percent, volume float64) PriceRecord {
	product = textnorm.Normalize(product)
	return PriceRecord{
		Date:            date,
		DateLabel:       textnorm.Normalize(dateLabel),
		Market:          textnorm.Normalize(market),
		Product:         product,
		AveragePrice:    avgPrice,
		PercentChange:   percent,
		TradeVolume:     volume,
		ProductNameOnly: textnorm.StripProductCode(product),
		ProductClean:    textnorm.MatchKey(product),
	}
}

// ProductLabel distinct product label with lowercased match keys computed at load
type ProductLabel struct {
	Label       string
	Key         string
	NameOnlyKey string
}

// NewProductLabel keys come from the derived fields of rec
func NewProductLabel(rec PriceRecord) ProductLabel {
	return ProductLabel{
		Label:       rec.Product,
		Key:         strings.ToLower(rec.ProductClean),
		NameOnlyKey: strings.ToLower(textnorm.MatchKey(rec.ProductNameOnly)),
	}
}

// SeasonalRecord one row of the regional/monthly availability table.
// Month keeps the stored string form; month matching works on it directly.
type SeasonalRecord struct {
	Type    string
	Item    string
	Variety string
	County  string
	Month   string
}
