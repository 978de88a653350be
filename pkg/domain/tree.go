package domain

// TreeNode is a node inside a Tree snapshot, holding its children by value.
type TreeNode struct {
	ID       string     `json:"id" yaml:"id"`
	Label    string     `json:"label" yaml:"label"`
	Children []TreeNode `json:"children" yaml:"children"`
}

// Tree is a full, detached snapshot of the structure.
// Mutating a Tree never affects the store it was produced from.
type Tree struct {
	Root TreeNode `json:"root" yaml:"root"`
}

// Walk visits every node in depth-first pre-order.
// The depth of the root is 0. Returning false stops the descent into that node's children.
func (t Tree) Walk(fn func(n TreeNode, depth int) bool) {
	walkTree(t.Root, 0, fn)
}

func walkTree(n TreeNode, depth int, fn func(TreeNode, int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walkTree(c, depth+1, fn)
	}
}

// IDs returns every node ID in depth-first pre-order.
func (t Tree) IDs() []string {
	var ids []string
	t.Walk(func(n TreeNode, _ int) bool {
		ids = append(ids, n.ID)
		return true
	})
	return ids
}

// Len returns the number of nodes in the snapshot.
func (t Tree) Len() int {
	count := 0
	t.Walk(func(TreeNode, int) bool {
		count++
		return true
	})
	return count
}

// Find returns the subtree rooted at id.
func (t Tree) Find(id string) (TreeNode, bool) {
	var found TreeNode
	ok := false
	t.Walk(func(n TreeNode, _ int) bool {
		if ok {
			return false
		}
		if n.ID == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// Labels returns a map of node ID to label.
func (t Tree) Labels() map[string]string {
	labels := make(map[string]string)
	t.Walk(func(n TreeNode, _ int) bool {
		labels[n.ID] = n.Label
		return true
	})
	return labels
}
