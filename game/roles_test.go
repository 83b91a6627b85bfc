package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `roles:
  - id: bank-manager
    name: Bank Manager
    era: "Vienna, 1903"
    description: Keeper of other people's fortunes.
    premise: The vault keys are yours.
    attributes:
      cash: 1000
      standing: 60
  - id: ship-surgeon
    name: Ship's Surgeon
    era: "The Atlantic, 1782"
    description: The only doctor aboard.
    premise: Fever below decks.
    attributes:
      skill: 75
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(writeCatalog(t, testCatalog))
	require.NoError(t, err)
	require.Len(t, c.Roles, 2)

	role, ok := c.Find("bank-manager")
	require.True(t, ok)
	assert.Equal(t, "Bank Manager", role.Name)
	assert.Equal(t, 1000, role.Attributes["cash"])

	_, ok = c.Find("astronaut")
	assert.False(t, ok)
}

func TestLoadCatalogRejectsEmpty(t *testing.T) {
	_, err := LoadCatalog(writeCatalog(t, "roles: []\n"))
	assert.Error(t, err)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestAttributeCondition(t *testing.T) {
	tests := []struct {
		name     string
		value    int
		initial  int
		expected string
	}{
		{"well above start", 130, 100, "Thriving"},
		{"near start", 90, 100, "Steady"},
		{"half gone", 50, 100, "Strained"},
		{"almost nothing", 10, 100, "Desperate"},
		{"zeroed out", 0, 100, "Ruined"},
		{"unknown initial treated as unit", 5, 0, "Thriving"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AttributeCondition(tt.value, tt.initial).Description)
		})
	}
}
