package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taxportal/filing-engine/internal/domain"
)

// TableFile is the on-disk layout of a regime table file.
type TableFile struct {
	Tables domain.RegimeTables `yaml:"tables"`
}

// TableLoader reads versioned regime tables from YAML files.
type TableLoader struct{}

// NewTableLoader creates a new table loader
func NewTableLoader() *TableLoader {
	return &TableLoader{}
}

// LoadFromFile loads and validates the tables in filename.
func (tl *TableLoader) LoadFromFile(filename string) (domain.RegimeTables, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return tl.Parse(data)
}

// Parse decodes and validates table YAML.
func (tl *TableLoader) Parse(data []byte) (domain.RegimeTables, error) {
	var file TableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := tl.ValidateTables(file.Tables); err != nil {
		return nil, fmt.Errorf("regime table validation failed: %w", err)
	}
	return file.Tables, nil
}

// ValidateTables checks every table and rejects ambiguous sets: a version
// may appear once per regime, and two tables of one regime may not start in
// the same assessment year.
func (tl *TableLoader) ValidateTables(tables domain.RegimeTables) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables provided")
	}

	versions := make(map[string]bool)
	starts := make(map[string]string)
	for i, t := range tables {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("table %d (%s): %w", i, t.Version, err)
		}
		vk := string(t.Regime) + "/" + t.Version
		if versions[vk] {
			return fmt.Errorf("duplicate %s table version %s", t.Regime, t.Version)
		}
		versions[vk] = true

		sk := string(t.Regime) + "/" + t.EffectiveFrom
		if other, ok := starts[sk]; ok {
			return fmt.Errorf("%s tables %s and %s both start in %s", t.Regime, other, t.Version, t.EffectiveFrom)
		}
		starts[sk] = t.Version
	}
	return nil
}
