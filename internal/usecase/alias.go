package usecase

import (
	"strings"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

// AliasResolver maps colloquial crop names, region short names and type synonyms.
// Every table is scanned in configuration order.
type AliasResolver struct {
	crops        []entity.CropAlias
	regions      []entity.RegionAlias
	typeKeywords []string
	typeSynonyms []entity.TypeAlias
}

// NewAliasResolver copies the alias tables so later edits to cfg have no effect
func NewAliasResolver(cfg entity.AliasConfig) *AliasResolver {
	r := &AliasResolver{
		crops:        append([]entity.CropAlias(nil), cfg.Crops...),
		typeKeywords: append([]string(nil), cfg.TypeKeywords...),
		typeSynonyms: append([]entity.TypeAlias(nil), cfg.TypeSynonyms...),
	}
	for _, region := range cfg.Regions {
		r.regions = append(r.regions, entity.RegionAlias{
			Short:    region.Short,
			Counties: append([]string(nil), region.Counties...),
		})
	}
	return r
}

// ResolveCrop returns the canonical name of the first colloquial form found in term, or term itself
func (r *AliasResolver) ResolveCrop(term string) string {
	for _, alias := range r.crops {
		if alias.Colloquial != "" && strings.Contains(term, alias.Colloquial) {
			return alias.Canonical
		}
	}
	return term
}

// DetectRegions collects the counties of every short name contained in text.
// A short name shared by a city and a county contributes both.
func (r *AliasResolver) DetectRegions(text string) []string {
	var counties []string
	for _, region := range r.regions {
		if region.Short != "" && strings.Contains(text, region.Short) {
			counties = append(counties, region.Counties...)
		}
	}
	return counties
}

// DetectType canonical keywords win over synonyms
func (r *AliasResolver) DetectType(text string) (string, bool) {
	for _, kw := range r.typeKeywords {
		if kw != "" && strings.Contains(text, kw) {
			return kw, true
		}
	}
	for _, syn := range r.typeSynonyms {
		if syn.Synonym != "" && strings.Contains(text, syn.Synonym) {
			return syn.Canonical, true
		}
	}
	return "", false
}
