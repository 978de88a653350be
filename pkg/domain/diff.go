package domain

import (
	"reflect"
	"sort"
)

// TreeDiff represents the changes between two tree snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type TreeDiff struct {
	// Added lists new node IDs, in depth-first order of the new tree.
	Added []string `json:"added,omitempty"`

	// Removed lists node IDs that no longer exist, sorted.
	Removed []string `json:"removed,omitempty"`

	// Relabeled maps node IDs to their new label.
	Relabeled map[string]string `json:"relabeled,omitempty"`

	// Reordered lists surviving nodes whose child list changed.
	Reordered []string `json:"reordered,omitempty"`

	// Interaction carries the hover/selection state, when it changed.
	Interaction *InteractionEvent `json:"interaction,omitempty"`
}

// Structural reports whether the diff changes the tree itself rather than only
// the interaction overlay.
func (d *TreeDiff) Structural() bool {
	if d == nil {
		return false
	}
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Relabeled) > 0 || len(d.Reordered) > 0
}

// DiffTrees calculates the difference between oldTree and newTree.
// If oldTree is nil, it returns a diff representing the entire newTree (initial load).
// It returns nil when nothing changed.
func DiffTrees(oldTree, newTree *Tree) *TreeDiff {
	if newTree == nil {
		return nil
	}

	diff := &TreeDiff{}

	newNodes := flatten(newTree)
	var oldNodes map[string]TreeNode
	if oldTree != nil {
		oldNodes = flatten(oldTree)
	}

	// 1. Added and modified, in new tree order
	for _, id := range newTree.IDs() {
		n := newNodes[id]
		old, existed := oldNodes[id]
		if !existed {
			diff.Added = append(diff.Added, id)
			continue
		}
		if old.Label != n.Label {
			if diff.Relabeled == nil {
				diff.Relabeled = make(map[string]string)
			}
			diff.Relabeled[id] = n.Label
		}
		if !reflect.DeepEqual(childIDs(old), childIDs(n)) {
			diff.Reordered = append(diff.Reordered, id)
		}
	}

	// 2. Deletions
	for id := range oldNodes {
		if _, exists := newNodes[id]; !exists {
			diff.Removed = append(diff.Removed, id)
		}
	}
	sort.Strings(diff.Removed)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func flatten(t *Tree) map[string]TreeNode {
	nodes := make(map[string]TreeNode)
	t.Walk(func(n TreeNode, _ int) bool {
		nodes[n.ID] = n
		return true
	})
	return nodes
}

func childIDs(n TreeNode) []string {
	ids := make([]string, len(n.Children))
	for i, c := range n.Children {
		ids[i] = c.ID
	}
	return ids
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *TreeDiff) IsEmpty() bool {
	return len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Relabeled) == 0 &&
		len(d.Reordered) == 0 &&
		d.Interaction == nil
}
