package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/navagraha/jyotish/pkg/yoga"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
}

// NewYAMLProvider creates a new YAML configuration provider
func NewYAMLProvider(filename string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
	}
}

// LoadConfig loads the configuration from the YAML file, overlaid on the
// defaults
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	cfgFile, err := os.ReadFile(y.filename)
	if err != nil {
		return nil, err
	}

	var yamlConfig struct {
		Ayanamsa           string   `yaml:"ayanamsa,omitempty"`
		HouseSystem        string   `yaml:"house_system,omitempty"`
		Variants           []string `yaml:"variants,omitempty"`
		DashaDepth         int      `yaml:"dasha_depth,omitempty"`
		CatalogVersion     string   `yaml:"catalog_version,omitempty"`
		TransitHorizonDays int      `yaml:"transit_horizon_days,omitempty"`
		Debug              bool     `yaml:"debug,omitempty"`
	}
	if err := yaml.Unmarshal(cfgFile, &yamlConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", y.filename, err)
	}

	return merge(Defaults(), &ConfigData{
		Ayanamsa:           yamlConfig.Ayanamsa,
		HouseSystem:        yamlConfig.HouseSystem,
		Variants:           yamlConfig.Variants,
		DashaDepth:         yamlConfig.DashaDepth,
		CatalogVersion:     yamlConfig.CatalogVersion,
		TransitHorizonDays: yamlConfig.TransitHorizonDays,
		Debug:              yamlConfig.Debug,
	}), nil
}

// GetRuleCatalog serves only the built-in catalog; a YAML source carries no
// stored catalogs.
func (y *YAMLProvider) GetRuleCatalog(version string) (*yoga.Catalog, error) {
	builtin := yoga.Builtin()
	if version == "" || version == builtin.Version {
		return builtin, nil
	}
	return nil, fmt.Errorf("rule catalog %q not available from a YAML source", version)
}

// SaveRuleCatalog is not supported for YAML sources
func (y *YAMLProvider) SaveRuleCatalog(*yoga.Catalog) error {
	return fmt.Errorf("YAML configuration is read-only")
}

// IsReadOnly returns true for YAML sources
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML sources
func (y *YAMLProvider) Close() error {
	return nil
}
