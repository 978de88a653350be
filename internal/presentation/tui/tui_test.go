package tui_test

import (
	"bytes"
	"testing"

	"github.com/aretw0/arbor/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_KeepsContent(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("- root\n  - child\n")
	require.NoError(t, err)
	assert.Contains(t, out, "root")
	assert.Contains(t, out, "child")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "v1.2.3")
	assert.Contains(t, buf.String(), "tree editor v1.2.3")
}
