package entity

// CropAlias colloquial crop name -> canonical crop name
type CropAlias struct {
	Colloquial string `yaml:"from"`
	Canonical  string `yaml:"to"`
}

// RegionAlias short region name -> every full county name it may mean
type RegionAlias struct {
	Short    string   `yaml:"short"`
	Counties []string `yaml:"counties"`
}

// TypeAlias product type synonym -> canonical type label
type TypeAlias struct {
	Synonym   string `yaml:"from"`
	Canonical string `yaml:"to"`
}

// AliasConfig all alias tables; slice order is the scan order
type AliasConfig struct {
	Crops        []CropAlias   `yaml:"crops"`
	Regions      []RegionAlias `yaml:"regions"`
	TypeKeywords []string      `yaml:"type_keywords"`
	TypeSynonyms []TypeAlias   `yaml:"type_synonyms"`
}
