package scenario

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the top-level structure of a scenario catalog file.
type Catalog struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadCatalog reads a YAML catalog from r and returns a populated Registry.
// Scenarios are registered in file order; a duplicate or invalid scenario
// fails the whole load.
func LoadCatalog(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if len(cat.Scenarios) == 0 {
		return nil, fmt.Errorf("catalog contains no scenarios")
	}

	reg := NewRegistry()

	for _, sc := range cat.Scenarios {
		if err := reg.Register(sc); err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
	}

	return reg, nil
}

// LoadCatalogFile loads a YAML catalog from the given path.
func LoadCatalogFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	return LoadCatalog(f)
}
