package roster

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads a YAML list of {id, name} entries. An empty path
// yields DefaultSeed.
//
//	- id: sofia_sarachaga
//	  name: Sofia Sarachaga
func LoadSeedFile(path string) ([]Student, error) {
	if path == "" {
		return DefaultSeed, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster file: %w", err)
	}

	var seed []Student
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse roster file: %w", err)
	}
	for i := range seed {
		seed[i].ID = strings.TrimSpace(seed[i].ID)
		seed[i].Name = strings.TrimSpace(seed[i].Name)
	}
	if err := validateSeed(seed); err != nil {
		return nil, fmt.Errorf("roster file %s: %w", path, err)
	}
	return seed, nil
}
