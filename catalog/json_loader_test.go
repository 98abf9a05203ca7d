package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	t.Run("given a valid catalog document, then parses every descriptor", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.json")
		content := `[
			{"id":"paystack","type":"real","enabled":true,"adapterPath":"adapters/paystack"},
			{"id":"legacy-crm","type":"mock","enabled":true,"toolCount":12}
		]`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		descriptors, err := LoadFromFile(path)
		require.NoError(t, err)
		require.Len(t, descriptors, 2)
		assert.Equal(t, "paystack", descriptors[0].ID)
		assert.True(t, descriptors[0].Enabled)
		assert.Equal(t, 12, descriptors[1].ToolCount)
	})

	t.Run("given a missing file, then returns an error satisfying os.IsNotExist", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestLoadAPIServiceIndexFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "services.json")
	content := `[{"name":"crm","baseUrl":"https://crm.internal","description":"CRM passthrough"}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	services, err := LoadAPIServiceIndexFromFile(path)
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "crm", services[0].Name)
	assert.Equal(t, "https://crm.internal", services[0].BaseURL)
}
