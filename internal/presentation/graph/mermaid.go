package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart from a tree snapshot.
// It applies structural styling:
// - Root: ((Circle))
// - Inner node: (Rounded)
// - Leaf: [Rectangle]
// It also applies overlay styles (Selected/Hovered) if provided.
func GenerateMermaid(t domain.Tree, overlay *domain.InteractionEvent) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	t.Walk(func(n domain.TreeNode, depth int) bool {
		safeID := sanitizeMermaidID(n.ID)

		opener, closer := "[", "]"
		switch {
		case depth == 0:
			opener, closer = "((", "))"
		case len(n.Children) > 0:
			opener, closer = "(", ")"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(n.Label), closer))

		for _, c := range n.Children {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(c.ID)))
		}
		return true
	})

	if overlay != nil && (overlay.Hovered != "" || len(overlay.Selected) > 0) {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme.
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef hovered fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		selected := make(map[string]bool, len(overlay.Selected))
		for _, id := range overlay.Selected {
			if _, ok := t.Find(id); !ok || selected[id] {
				continue
			}
			selected[id] = true
			sb.WriteString(fmt.Sprintf("    class %s selected;\n", sanitizeMermaidID(id)))
		}

		// Selection wins over hover when both apply to the same node.
		if h := overlay.Hovered; h != "" && !selected[h] {
			if _, ok := t.Find(h); ok {
				sb.WriteString(fmt.Sprintf("    class %s hovered;\n", sanitizeMermaidID(h)))
			}
		}
	}

	return sb.String()
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
