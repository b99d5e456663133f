package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/limoonouo/Haoshi-Fruits/internal/domain/constants"
	"github.com/limoonouo/Haoshi-Fruits/internal/domain/entity"
)

// LoadAliases reads an alias YAML file. An empty path returns the built-in tables.
// Sections missing from the file keep their built-in values; present sections replace them.
func LoadAliases(path string) (entity.AliasConfig, error) {
	defaults := constants.DefaultAliases()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entity.AliasConfig{}, fmt.Errorf("read aliases file: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))

	var file entity.AliasConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return entity.AliasConfig{}, fmt.Errorf("parse aliases file: %w", err)
	}

	if file.Crops != nil {
		defaults.Crops = file.Crops
	}
	if file.Regions != nil {
		defaults.Regions = file.Regions
	}
	if file.TypeKeywords != nil {
		defaults.TypeKeywords = file.TypeKeywords
	}
	if file.TypeSynonyms != nil {
		defaults.TypeSynonyms = file.TypeSynonyms
	}

	if err := validateAliases(defaults); err != nil {
		return entity.AliasConfig{}, err
	}
	return defaults, nil
}

func validateAliases(cfg entity.AliasConfig) error {
	for i, c := range cfg.Crops {
		if c.Colloquial == "" || c.Canonical == "" {
			return fmt.Errorf("crops[%d]: from and to are required", i)
		}
	}
	for i, r := range cfg.Regions {
		if r.Short == "" || len(r.Counties) == 0 {
			return fmt.Errorf("regions[%d]: short and counties are required", i)
		}
	}
	for i, s := range cfg.TypeSynonyms {
		if s.Synonym == "" || s.Canonical == "" {
			return fmt.Errorf("type_synonyms[%d]: from and to are required", i)
		}
	}
	return nil
}
