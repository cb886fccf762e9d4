package config

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/navagraha/jyotish/pkg/yoga"
)

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider and ensures
// the schema exists
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	p := &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}
	if err := p.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (s *SQLiteProvider) ensureSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rule_catalogs (
			version TEXT PRIMARY KEY,
			rules TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// LoadConfig loads the configuration from the settings table, overlaid on
// the defaults
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	loaded := &ConfigData{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		if err := applySetting(loaded, key, value); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return merge(Defaults(), loaded), nil
}

func applySetting(cfg *ConfigData, key, value string) error {
	switch key {
	case "ayanamsa":
		cfg.Ayanamsa = value
	case "house_system":
		cfg.HouseSystem = value
	case "variants":
		if err := json.Unmarshal([]byte(value), &cfg.Variants); err != nil {
			return fmt.Errorf("setting variants: %w", err)
		}
	case "dasha_depth":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("setting dasha_depth: %w", err)
		}
		cfg.DashaDepth = n
	case "catalog_version":
		cfg.CatalogVersion = value
	case "transit_horizon_days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("setting transit_horizon_days: %w", err)
		}
		cfg.TransitHorizonDays = n
	case "debug":
		cfg.Debug = value == "true" || value == "1"
	}
	return nil
}

// SaveConfig writes the configuration to the settings table
func (s *SQLiteProvider) SaveConfig(cfg *ConfigData) error {
	variants, err := json.Marshal(cfg.Variants)
	if err != nil {
		return err
	}
	settings := map[string]string{
		"ayanamsa":             cfg.Ayanamsa,
		"house_system":         cfg.HouseSystem,
		"variants":             string(variants),
		"dasha_depth":          strconv.Itoa(cfg.DashaDepth),
		"catalog_version":      cfg.CatalogVersion,
		"transit_horizon_days": strconv.Itoa(cfg.TransitHorizonDays),
		"debug":                strconv.FormatBool(cfg.Debug),
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	for key, value := range settings {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// GetRuleCatalog loads a stored catalog by version. The built-in catalog is
// always available even when it was never stored.
func (s *SQLiteProvider) GetRuleCatalog(version string) (*yoga.Catalog, error) {
	builtin := yoga.Builtin()
	if version == "" {
		version = builtin.Version
	}

	var rules string
	err := s.db.QueryRow(
		`SELECT rules FROM rule_catalogs WHERE version = ?`, version,
	).Scan(&rules)
	if err == sql.ErrNoRows {
		if version == builtin.Version {
			return builtin, nil
		}
		return nil, fmt.Errorf("rule catalog %q not found", version)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rule catalog: %w", err)
	}

	cat, err := yoga.Load(bytes.NewReader([]byte(rules)))
	if err != nil {
		return nil, fmt.Errorf("stored catalog %q is corrupt: %w", version, err)
	}
	return cat, nil
}

// SaveRuleCatalog stores a catalog under its version, replacing any
// previous copy
func (s *SQLiteProvider) SaveRuleCatalog(cat *yoga.Catalog) error {
	if cat.Version == "" {
		return fmt.Errorf("catalog has no version")
	}
	rules, err := json.Marshal(cat)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO rule_catalogs (version, rules, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(version) DO UPDATE SET rules = excluded.rules, created_at = excluded.created_at`,
		cat.Version, string(rules), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save rule catalog: %w", err)
	}
	return nil
}

// IsReadOnly returns false for SQLite sources
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
