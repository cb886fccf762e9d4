package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/navagraha/jyotish/pkg/yoga"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestYAMLProviderOverlay(t *testing.T) {
	path := writeTempYAML(t, `
ayanamsa: raman
variants:
  - D9
  - D10
dasha_depth: 5
`)
	p := NewYAMLProvider(path)
	defer p.Close()

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Ayanamsa != "raman" {
		t.Errorf("ayanamsa = %q, want raman", cfg.Ayanamsa)
	}
	if cfg.DashaDepth != 5 {
		t.Errorf("dasha depth = %d, want 5", cfg.DashaDepth)
	}
	if len(cfg.Variants) != 2 || cfg.Variants[1] != "D10" {
		t.Errorf("variants = %v", cfg.Variants)
	}
	// Unset keys keep their defaults.
	if cfg.HouseSystem != "whole-sign" {
		t.Errorf("house system = %q, want whole-sign default", cfg.HouseSystem)
	}
	if cfg.CatalogVersion != "builtin-1" {
		t.Errorf("catalog version = %q, want builtin-1 default", cfg.CatalogVersion)
	}
}

func TestYAMLProviderErrors(t *testing.T) {
	if _, err := NewYAMLProvider("/nonexistent/config.yaml").LoadConfig(); err == nil {
		t.Error("expected error for missing file")
	}

	bad := writeTempYAML(t, "ayanamsa: [not, a, string]")
	if _, err := NewYAMLProvider(bad).LoadConfig(); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestYAMLProviderCatalogs(t *testing.T) {
	p := NewYAMLProvider(writeTempYAML(t, ""))
	defer p.Close()

	if !p.IsReadOnly() {
		t.Error("YAML provider should be read-only")
	}

	cat, err := p.GetRuleCatalog("")
	if err != nil {
		t.Fatalf("GetRuleCatalog: %v", err)
	}
	if cat.Version != yoga.Builtin().Version {
		t.Errorf("default catalog version = %q", cat.Version)
	}

	if _, err := p.GetRuleCatalog("custom-7"); err == nil {
		t.Error("expected error for unknown catalog version")
	}
	if err := p.SaveRuleCatalog(cat); err == nil {
		t.Error("expected error saving catalog to a YAML source")
	}
}

func sqliteProvider(t *testing.T) *SQLiteProvider {
	t.Helper()
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "config.db"))
	if err != nil {
		t.Fatalf("NewSQLiteProvider: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestSQLiteProviderDefaults(t *testing.T) {
	p := sqliteProvider(t)

	if p.IsReadOnly() {
		t.Error("SQLite provider should be writable")
	}

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := Defaults()
	if cfg.Ayanamsa != want.Ayanamsa || cfg.DashaDepth != want.DashaDepth ||
		cfg.TransitHorizonDays != want.TransitHorizonDays {
		t.Errorf("empty database config = %+v, want defaults %+v", cfg, want)
	}
}

func TestSQLiteProviderSaveLoad(t *testing.T) {
	p := sqliteProvider(t)

	in := &ConfigData{
		Ayanamsa:           "krishnamurti",
		HouseSystem:        "equal",
		Variants:           []string{"D9", "D60"},
		DashaDepth:         4,
		CatalogVersion:     "builtin-1",
		TransitHorizonDays: 730,
		Debug:              true,
	}
	if err := p.SaveConfig(in); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	cfg, err := p.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Ayanamsa != in.Ayanamsa || cfg.HouseSystem != in.HouseSystem ||
		cfg.DashaDepth != in.DashaDepth || cfg.TransitHorizonDays != in.TransitHorizonDays ||
		!cfg.Debug {
		t.Errorf("round trip lost settings: %+v", cfg)
	}
	if len(cfg.Variants) != 2 || cfg.Variants[1] != "D60" {
		t.Errorf("variants = %v, want [D9 D60]", cfg.Variants)
	}
}

func TestSQLiteCatalogRoundTrip(t *testing.T) {
	p := sqliteProvider(t)

	// The built-in catalog is served even before anything is stored.
	cat, err := p.GetRuleCatalog("")
	if err != nil {
		t.Fatalf("GetRuleCatalog(builtin): %v", err)
	}
	if len(cat.Rules) == 0 {
		t.Fatal("built-in catalog is empty")
	}

	custom := *yoga.Builtin()
	custom.Version = "custom-1"
	if err := p.SaveRuleCatalog(&custom); err != nil {
		t.Fatalf("SaveRuleCatalog: %v", err)
	}

	got, err := p.GetRuleCatalog("custom-1")
	if err != nil {
		t.Fatalf("GetRuleCatalog(custom-1): %v", err)
	}
	if got.Version != "custom-1" || len(got.Rules) != len(custom.Rules) {
		t.Errorf("stored catalog: version %q, %d rules; want custom-1, %d rules",
			got.Version, len(got.Rules), len(custom.Rules))
	}
	for i := range custom.Rules {
		if got.Rules[i].ID != custom.Rules[i].ID {
			t.Errorf("rule %d: id %q, want %q", i, got.Rules[i].ID, custom.Rules[i].ID)
		}
	}

	if _, err := p.GetRuleCatalog("never-stored"); err == nil {
		t.Error("expected error for unknown stored version")
	}

	versionless := &yoga.Catalog{}
	if err := p.SaveRuleCatalog(versionless); err == nil {
		t.Error("expected error saving a versionless catalog")
	}
}
