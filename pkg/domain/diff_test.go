package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(id string) TreeNode {
	return TreeNode{ID: id, Label: id}
}

func TestDiffTrees(t *testing.T) {
	base := &Tree{Root: TreeNode{ID: "r", Label: "r", Children: []TreeNode{leaf("a"), leaf("b")}}}

	tests := []struct {
		name string
		old  *Tree
		new  *Tree
		want *TreeDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  base,
			want: &TreeDiff{Added: []string{"r", "a", "b"}},
		},
		{
			name: "No Changes",
			old:  base,
			new:  &Tree{Root: TreeNode{ID: "r", Label: "r", Children: []TreeNode{leaf("a"), leaf("b")}}},
			want: nil,
		},
		{
			name: "Child Added",
			old:  base,
			new: &Tree{Root: TreeNode{ID: "r", Label: "r", Children: []TreeNode{
				{ID: "a", Label: "a", Children: []TreeNode{leaf("c")}},
				leaf("b"),
			}}},
			want: &TreeDiff{Added: []string{"c"}, Reordered: []string{"a"}},
		},
		{
			name: "Subtree Removed",
			old: &Tree{Root: TreeNode{ID: "r", Label: "r", Children: []TreeNode{
				{ID: "a", Label: "a", Children: []TreeNode{leaf("c")}},
				leaf("b"),
			}}},
			new:  &Tree{Root: TreeNode{ID: "r", Label: "r", Children: []TreeNode{leaf("b")}}},
			want: &TreeDiff{Removed: []string{"a", "c"}, Reordered: []string{"r"}},
		},
		{
			name: "Relabel",
			old:  base,
			new:  &Tree{Root: TreeNode{ID: "r", Label: "r", Children: []TreeNode{{ID: "a", Label: "Alpha"}, leaf("b")}}},
			want: &TreeDiff{Relabeled: map[string]string{"a": "Alpha"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffTrees(tt.old, tt.new)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiffTrees_NilNew(t *testing.T) {
	assert.Nil(t, DiffTrees(&Tree{Root: leaf("r")}, nil))
}

func TestTreeDiff_Structural(t *testing.T) {
	var none *TreeDiff
	assert.False(t, none.Structural())
	assert.False(t, (&TreeDiff{Interaction: &InteractionEvent{Hovered: "a"}}).Structural())
	assert.True(t, (&TreeDiff{Added: []string{"a"}}).Structural())
	assert.True(t, (&TreeDiff{Removed: []string{"a"}}).Structural())
	assert.True(t, (&TreeDiff{Relabeled: map[string]string{"a": "A"}}).Structural())
	assert.True(t, (&TreeDiff{Reordered: []string{"a"}}).Structural())
}

func TestTreeDiff_JSONOmitsEmpty(t *testing.T) {
	d := &TreeDiff{Added: []string{"n-2"}}
	b, err := json.Marshal(d)
	require.NoError(t, err)

	s := string(b)
	assert.True(t, strings.Contains(s, `"added":["n-2"]`))
	assert.False(t, strings.Contains(s, "removed"))
	assert.False(t, strings.Contains(s, "interaction"))
}
