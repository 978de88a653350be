package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// GenerateOutline renders the tree as a nested Markdown list.
// Selected nodes are bold and the hovered node is italic.
func GenerateOutline(t domain.Tree, overlay *domain.InteractionEvent) string {
	selected := map[string]bool{}
	hovered := ""
	if overlay != nil {
		for _, id := range overlay.Selected {
			selected[id] = true
		}
		hovered = overlay.Hovered
	}

	var sb strings.Builder
	t.Walk(func(n domain.TreeNode, depth int) bool {
		label := escapeMarkdown(n.Label)
		if selected[n.ID] {
			label = "**" + label + "**"
		}
		if n.ID == hovered {
			label = "_" + label + "_"
		}
		sb.WriteString(fmt.Sprintf("%s- %s `%s`\n", strings.Repeat("  ", depth), label, n.ID))
		return true
	})
	return sb.String()
}

var markdownEscaper = strings.NewReplacer("*", "\\*", "_", "\\_", "`", "\\`", "[", "\\[", "]", "\\]")

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
