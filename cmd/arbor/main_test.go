package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "arbor version "+arbor.Version+"\n", run(t, "", "version"))
}

func TestReplayCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "arbor.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("root:\n  label: Top\n"), 0644))

	out := run(t, "click n-1\n", "replay", "--config", cfg, "--format", "mermaid")
	assert.Contains(t, out, `n_1(("Top"))`)
	assert.Contains(t, out, "n_1 --> n_2")
}
