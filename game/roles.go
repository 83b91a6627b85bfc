package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Role is one playable professional or historical figure from the lore
// catalog: who the player is, where their story opens, and the stats
// they start with.
type Role struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Era         string         `yaml:"era" json:"era"`
	Description string         `yaml:"description" json:"description"`
	Premise     string         `yaml:"premise" json:"premise"`
	Attributes  map[string]int `yaml:"attributes" json:"attributes"`
}

// Catalog is the set of roles offered on the setup screen.
type Catalog struct {
	Roles []Role `yaml:"roles"`
}

// LoadCatalog reads the role catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse role catalog: %w", err)
	}
	if len(c.Roles) == 0 {
		return nil, fmt.Errorf("role catalog %s contains no roles", path)
	}
	return &c, nil
}

// Find returns the role with the given id.
func (c *Catalog) Find(id string) (Role, bool) {
	for _, r := range c.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}
