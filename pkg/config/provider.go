// Package config loads engine settings and yoga rule catalogs from YAML
// files or a SQLite database. The YAML provider is read-only; the SQLite
// provider also persists rule catalogs by version.
package config

import "github.com/navagraha/jyotish/pkg/yoga"

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	// Rule catalog access by version string
	GetRuleCatalog(version string) (*yoga.Catalog, error)
	SaveRuleCatalog(cat *yoga.Catalog) error

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete engine configuration
type ConfigData struct {
	Ayanamsa           string   `json:"ayanamsa,omitempty"`
	HouseSystem        string   `json:"house_system,omitempty"`
	Variants           []string `json:"variants,omitempty"`
	DashaDepth         int      `json:"dasha_depth,omitempty"`
	CatalogVersion     string   `json:"catalog_version,omitempty"`
	TransitHorizonDays int      `json:"transit_horizon_days,omitempty"`
	Debug              bool     `json:"debug,omitempty"`
}

// Defaults returns the configuration used when no source is given: Lahiri
// ayanamsa, whole-sign houses, navamsa alongside D1, three dasha levels and
// a ten-year transit horizon.
func Defaults() *ConfigData {
	return &ConfigData{
		Ayanamsa:           "lahiri",
		HouseSystem:        "whole-sign",
		Variants:           []string{"D9"},
		DashaDepth:         3,
		CatalogVersion:     "builtin-1",
		TransitHorizonDays: 3650,
	}
}

// merge overlays loaded values onto the defaults so partial configuration
// files work.
func merge(base, loaded *ConfigData) *ConfigData {
	out := *base
	if loaded.Ayanamsa != "" {
		out.Ayanamsa = loaded.Ayanamsa
	}
	if loaded.HouseSystem != "" {
		out.HouseSystem = loaded.HouseSystem
	}
	if len(loaded.Variants) > 0 {
		out.Variants = loaded.Variants
	}
	if loaded.DashaDepth != 0 {
		out.DashaDepth = loaded.DashaDepth
	}
	if loaded.CatalogVersion != "" {
		out.CatalogVersion = loaded.CatalogVersion
	}
	if loaded.TransitHorizonDays != 0 {
		out.TransitHorizonDays = loaded.TransitHorizonDays
	}
	out.Debug = loaded.Debug
	return &out
}
