// Package export encodes tree snapshots for consumers outside the editor:
// HTTP clients, MCP agents and the command line.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMermaid  Format = "mermaid"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatMermaid, FormatMarkdown}

// ParseFormat resolves a format name. Empty means JSON; "yml" and "md" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "mermaid":
		return FormatMermaid, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidOperation, s)
}

// ContentType returns the MIME type to serve a format with.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMermaid:
		return "text/plain; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	}
	return "application/json"
}

// Document is the structured export: the tree plus, optionally, the interaction state.
type Document struct {
	Root        domain.TreeNode          `json:"root" yaml:"root"`
	Interaction *domain.InteractionEvent `json:"interaction,omitempty" yaml:"interaction,omitempty"`
}

// Encode writes the tree in the requested format. The overlay is optional.
func Encode(w io.Writer, f Format, t domain.Tree, overlay *domain.InteractionEvent) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Document{Root: t.Root, Interaction: overlay})
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Document{Root: t.Root, Interaction: overlay}); err != nil {
			return err
		}
		return enc.Close()
	case FormatMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(t, overlay))
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, graph.GenerateOutline(t, overlay))
		return err
	}
	return fmt.Errorf("%w: unknown export format %q", domain.ErrInvalidOperation, f)
}

// String encodes into a string.
func String(f Format, t domain.Tree, overlay *domain.InteractionEvent) (string, error) {
	var sb strings.Builder
	if err := Encode(&sb, f, t, overlay); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Decode reads a JSON or YAML document back into a tree.
func Decode(r io.Reader, f Format) (domain.Tree, error) {
	var doc Document
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return domain.Tree{}, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return domain.Tree{}, err
		}
	default:
		return domain.Tree{}, fmt.Errorf("%w: format %q cannot be decoded", domain.ErrInvalidOperation, f)
	}
	return domain.Tree{Root: doc.Root}, nil
}

// Seed converts a tree into seed nodes, dropping ids. The root label is returned separately.
func Seed(t domain.Tree) (string, []domain.SeedNode) {
	return t.Root.Label, seedChildren(t.Root.Children)
}

func seedChildren(nodes []domain.TreeNode) []domain.SeedNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]domain.SeedNode, len(nodes))
	for i, n := range nodes {
		out[i] = domain.SeedNode{Label: n.Label, Children: seedChildren(n.Children)}
	}
	return out
}
