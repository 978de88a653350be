package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCreateEditor_FromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "arbor.yaml", `
log_level: warn
selection_policy: multi
root:
  label: Plan
  children:
    - label: a
metrics:
  enabled: true
`)

	ed, metrics, cfg, logger, err := createEditor(Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.NotNil(t, metrics)
	assert.NotNil(t, logger)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, domain.SelectMulti, ed.Policy())
	assert.Equal(t, 2, ed.ExportTree().Len())
}

func TestCreateEditor_MissingConfigUsesDefaults(t *testing.T) {
	ed, metrics, _, _, err := createEditor(Options{ConfigPath: filepath.Join(t.TempDir(), "none.yaml"), Debug: true})
	require.NoError(t, err)
	assert.NotNil(t, metrics, "metrics are enabled by default")
	assert.Equal(t, "root", ed.ExportTree().Root.Label)
}

func TestReplay_ScriptThenExport(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "edits.txt", "click n-1\nselect n-2\nadd child\n")

	var out bytes.Buffer
	err := Replay(ReplayOptions{
		Options: Options{ConfigPath: filepath.Join(dir, "arbor.yaml")},
		Script:  script,
		Format:  "markdown",
		Output:  &out,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "added n-3\n"))
	assert.Contains(t, out.String(), "    - child `n-3`")
}

func TestReplay_StdinStopOnError(t *testing.T) {
	err := Replay(ReplayOptions{
		Options:     Options{ConfigPath: filepath.Join(t.TempDir(), "arbor.yaml")},
		StopOnError: true,
		Input:       strings.NewReader("remove\n"),
		Output:      &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, domain.ErrNoSelection)
}

func TestReplay_BadFormat(t *testing.T) {
	err := Replay(ReplayOptions{
		Options: Options{ConfigPath: filepath.Join(t.TempDir(), "arbor.yaml")},
		Format:  "pdf",
		Input:   strings.NewReader(""),
		Output:  &bytes.Buffer{},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}
