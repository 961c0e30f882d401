package models

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed building.yaml
var defaultBuilding []byte

// DefaultBuilding returns the built-in building.
func DefaultBuilding() (*Building, error) {
	return ParseBuilding(defaultBuilding)
}

// LoadBuilding reads a building from a YAML file. An empty path selects the
// built-in building.
func LoadBuilding(path string) (*Building, error) {
	if path == "" {
		return DefaultBuilding()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read building: %w", err)
	}
	return ParseBuilding(data)
}

// ParseBuilding decodes and validates a building definition.
func ParseBuilding(data []byte) (*Building, error) {
	var b Building
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse building: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
