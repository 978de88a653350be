package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/arbor/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "arbor.yaml", `
log_level: debug
selection_policy: multi
click_mode: select
ids:
  strategy: random
  prefix: "node-"
root:
  label: Company
  children:
    - label: Engineering
      children:
        - label: Platform
    - label: Sales
http:
  port: 9090
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "multi", cfg.SelectionPolicy)
	assert.Equal(t, "select", cfg.ClickMode)
	assert.Equal(t, "random", cfg.IDs.Strategy)
	assert.Equal(t, "node-", cfg.IDs.Prefix)
	assert.Equal(t, "Company", cfg.Root.Label)
	require.Len(t, cfg.Root.Children, 2)
	assert.Equal(t, "Platform", cfg.Root.Children[0].Children[0].Label)
	assert.Equal(t, 3, cfg.SeedSize())
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Metrics.Enabled, "unset fields keep their defaults")
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "arbor.json", `{"root": {"label": "R", "children": [{"label": "A"}]}, "metrics": {"enabled": false}}`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "R", cfg.Root.Label)
	assert.Equal(t, 1, cfg.SeedSize())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "single", cfg.SelectionPolicy)
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeFile(t, "arbor.yaml", `
log_level: loud
selection_policy: many
click_mode: double
ids:
  strategy: snowflake
http:
  port: 70000
`)

	_, err := config.Load(path)
	require.Error(t, err)
	for _, want := range []string{"loud", "many", "double", "snowflake", "70000"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := writeFile(t, "arbor.yaml", "root: [unclosed")
	_, err := config.Load(path)
	assert.Error(t, err)
}
