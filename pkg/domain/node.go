package domain

// Node is a read-only view of a single element of the tree.
// Children holds the ordered IDs of the direct children; the slice is a copy.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Children []string `json:"children" yaml:"children"`
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// NodeSpec describes a node to be created. The ID is always generated by the store.
type NodeSpec struct {
	// Label is optional; when empty the node is labelled with its own ID.
	Label string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
}

// NodeUpdate describes a change to an existing node.
// Nil fields are left untouched.
type NodeUpdate struct {
	Label *string `json:"label,omitempty" yaml:"label,omitempty"`
}

// SeedNode is a nested node definition used to pre-populate a tree (e.g. from config).
type SeedNode struct {
	Label    string     `json:"label" yaml:"label" mapstructure:"label"`
	Children []SeedNode `json:"children,omitempty" yaml:"children,omitempty" mapstructure:"children"`
}
