package export_test

import (
	"strings"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() domain.Tree {
	return domain.Tree{Root: domain.TreeNode{
		ID: "n-1", Label: "root",
		Children: []domain.TreeNode{
			{ID: "n-2", Label: "a", Children: []domain.TreeNode{{ID: "n-3", Label: "b"}}},
		},
	}}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]export.Format{
		"":         export.FormatJSON,
		"JSON":     export.FormatJSON,
		"yml":      export.FormatYAML,
		"mermaid":  export.FormatMermaid,
		"md":       export.FormatMarkdown,
		"markdown": export.FormatMarkdown,
	}
	for in, want := range tests {
		got, err := export.ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := export.ParseFormat("svg")
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestEncode_StructuredFormatsDecodeBack(t *testing.T) {
	for _, f := range []export.Format{export.FormatJSON, export.FormatYAML} {
		t.Run(string(f), func(t *testing.T) {
			out, err := export.String(f, sample(), nil)
			require.NoError(t, err)

			got, err := export.Decode(strings.NewReader(out), f)
			require.NoError(t, err)
			assert.Equal(t, sample().IDs(), got.IDs())
			assert.Equal(t, sample().Labels(), got.Labels())
		})
	}
}

func TestEncode_JSONIncludesInteraction(t *testing.T) {
	out, err := export.String(export.FormatJSON, sample(), &domain.InteractionEvent{Hovered: "n-2", Selected: []string{"n-3"}})
	require.NoError(t, err)
	assert.Contains(t, out, `"hovered": "n-2"`)
	assert.Contains(t, out, `"selected": [`)

	out, err = export.String(export.FormatJSON, sample(), nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "interaction")
}

func TestEncode_TextFormats(t *testing.T) {
	mermaid, err := export.String(export.FormatMermaid, sample(), nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(mermaid, "graph TD"))

	md, err := export.String(export.FormatMarkdown, sample(), nil)
	require.NoError(t, err)
	assert.Contains(t, md, "    - b `n-3`")

	_, err = export.Decode(strings.NewReader(md), export.FormatMarkdown)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestSeed_DropsIDs(t *testing.T) {
	label, seed := export.Seed(sample())
	assert.Equal(t, "root", label)
	assert.Equal(t, []domain.SeedNode{{Label: "a", Children: []domain.SeedNode{{Label: "b"}}}}, seed)
}
