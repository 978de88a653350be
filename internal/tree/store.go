// Package tree implements the Tree Store: the single owner of the node structure.
//
// The store is not safe for concurrent use. All mutation happens on one logical
// thread; callers that need goroutines must serialize access (see arbor.Synchronized).
package tree

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/arbor/internal/idgen"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// ReferenceHolder is any component that keeps node IDs outside the store.
// The store calls it during removal and reset, before the operation returns.
type ReferenceHolder interface {
	ClearReferencesTo(id string)
	Reset()
}

// Listener receives a notification after each completed structural edit.
type Listener func(*domain.StructureEvent)

type entry struct {
	label    string
	children []string
}

// Store owns the canonical hierarchical node structure.
type Store struct {
	gen     ports.IDGenerator
	root    string
	nodes   map[string]*entry
	parents map[string]string // child ID -> parent ID; the root has no entry

	holders   []ReferenceHolder
	listeners []Listener
	logger    *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger configures a logger for the Store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a store holding a single root node.
// A nil generator defaults to sequential IDs; an empty label defaults to "root".
func New(gen ports.IDGenerator, rootLabel string, opts ...Option) (*Store, error) {
	if gen == nil {
		gen = idgen.NewSequential("")
	}
	s := &Store{
		gen:    gen,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.init(rootLabel); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) init(rootLabel string) error {
	if rootLabel == "" {
		rootLabel = domain.DefaultRootLabel
	}
	id, err := s.gen.NextID(func(string) bool { return false })
	if err != nil {
		return fmt.Errorf("failed to create root: %w", err)
	}
	if id == "" {
		return fmt.Errorf("%w: generator returned an empty root id", domain.ErrInvariantViolation)
	}
	s.nodes = map[string]*entry{id: {label: rootLabel}}
	s.parents = make(map[string]string)
	s.root = id
	return nil
}

// AddReferenceHolder registers a component to be purged on removal and reset.
func (s *Store) AddReferenceHolder(h ReferenceHolder) {
	s.holders = append(s.holders, h)
}

// OnChange registers a structural change listener.
func (s *Store) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Root returns the ID of the root node.
func (s *Store) Root() string {
	return s.root
}

// Len returns the number of live nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Contains reports whether id names a live node.
func (s *Store) Contains(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Node returns a read-only view of the node. The Children slice is a copy.
func (s *Store) Node(id string) (domain.Node, error) {
	e, ok := s.nodes[id]
	if !ok {
		return domain.Node{}, fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	return domain.Node{
		ID:       id,
		Label:    e.label,
		Children: slices.Clone(e.children),
	}, nil
}

// Parent returns the parent ID of a node, or "" for the root.
func (s *Store) Parent(id string) (string, error) {
	if !s.Contains(id) {
		return "", fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	return s.parents[id], nil
}

// AddChild appends a new node with a freshly generated ID to the parent's children.
func (s *Store) AddChild(parentID string, spec domain.NodeSpec) (string, error) {
	parent, ok := s.nodes[parentID]
	if !ok {
		return "", fmt.Errorf("%w: parent %q", domain.ErrNotFound, parentID)
	}

	id, err := s.newNode(spec.Label)
	if err != nil {
		return "", err
	}
	parent.children = append(parent.children, id)
	s.parents[id] = parentID

	s.logger.Debug("node added", "node_id", id, "parent_id", parentID)
	s.emit(&domain.StructureEvent{Kind: domain.ChangeAdd, NodeID: id, ParentID: parentID})
	return id, nil
}

// newNode allocates an unattached node. The generator must never hand out a live ID.
func (s *Store) newNode(label string) (string, error) {
	id, err := s.gen.NextID(s.Contains)
	if err != nil {
		return "", fmt.Errorf("failed to generate node id: %w", err)
	}
	if id == "" || s.Contains(id) {
		return "", fmt.Errorf("%w: generator returned unusable id %q", domain.ErrInvariantViolation, id)
	}
	if label == "" {
		label = id
	}
	s.nodes[id] = &entry{label: label}
	return id, nil
}

// RemoveSubtree detaches the node and its entire subtree.
// Every reference holder is purged of the removed IDs before this returns.
func (s *Store) RemoveSubtree(id string) error {
	if !s.Contains(id) {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	if id == s.root {
		return fmt.Errorf("%w: the root node cannot be removed", domain.ErrInvalidOperation)
	}

	parentID := s.parents[id]
	parent, ok := s.nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: node %q has no live parent", domain.ErrInvariantViolation, id)
	}
	idx := slices.Index(parent.children, id)
	if idx < 0 {
		return fmt.Errorf("%w: node %q missing from children of %q", domain.ErrInvariantViolation, id, parentID)
	}

	removed := s.collect(id, nil)
	parent.children = slices.Delete(parent.children, idx, idx+1)
	for _, rid := range removed {
		delete(s.nodes, rid)
		delete(s.parents, rid)
	}
	for _, h := range s.holders {
		for _, rid := range removed {
			h.ClearReferencesTo(rid)
		}
	}

	s.logger.Debug("subtree removed", "node_id", id, "parent_id", parentID, "count", len(removed))
	s.emit(&domain.StructureEvent{Kind: domain.ChangeRemove, NodeID: id, ParentID: parentID, Removed: removed})
	return nil
}

// collect appends id and all its descendants in pre-order.
func (s *Store) collect(id string, acc []string) []string {
	acc = append(acc, id)
	if e, ok := s.nodes[id]; ok {
		for _, c := range e.children {
			acc = s.collect(c, acc)
		}
	}
	return acc
}

// UpdateNode applies a partial update. An empty label restores the default (the ID).
func (s *Store) UpdateNode(id string, upd domain.NodeUpdate) error {
	e, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	if upd.Label == nil {
		return nil
	}
	label := *upd.Label
	if label == "" {
		label = id
	}
	if label == e.label {
		return nil
	}
	e.label = label

	s.emit(&domain.StructureEvent{Kind: domain.ChangeUpdate, NodeID: id, ParentID: s.parents[id]})
	return nil
}

// Seed bulk-loads nested nodes under parentID with a single change notification.
// On failure, the nodes added so far are discarded.
func (s *Store) Seed(parentID string, seed []domain.SeedNode) error {
	parent, ok := s.nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: parent %q", domain.ErrNotFound, parentID)
	}
	if len(seed) == 0 {
		return nil
	}

	before := len(parent.children)
	if err := s.seed(parentID, seed); err != nil {
		for _, id := range slices.Clone(parent.children[before:]) {
			for _, rid := range s.collect(id, nil) {
				delete(s.nodes, rid)
				delete(s.parents, rid)
			}
		}
		parent.children = parent.children[:before]
		return err
	}

	s.logger.Debug("tree seeded", "parent_id", parentID, "nodes", len(s.nodes))
	s.emit(&domain.StructureEvent{Kind: domain.ChangeSeed, NodeID: parentID})
	return nil
}

func (s *Store) seed(parentID string, seed []domain.SeedNode) error {
	parent := s.nodes[parentID]
	for _, sn := range seed {
		id, err := s.newNode(sn.Label)
		if err != nil {
			return err
		}
		parent.children = append(parent.children, id)
		s.parents[id] = parentID
		if err := s.seed(id, sn.Children); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops every node and starts over with a fresh root, optionally seeded.
// IDs are never reused across resets when the generator is monotonic.
// On failure the previous tree is kept untouched.
func (s *Store) Reset(rootLabel string, seed ...domain.SeedNode) error {
	nodes, parents, old := s.nodes, s.parents, s.root
	restore := func() {
		s.nodes, s.parents, s.root = nodes, parents, old
	}

	if err := s.init(rootLabel); err != nil {
		restore()
		return err
	}
	if err := s.seed(s.root, seed); err != nil {
		restore()
		return err
	}
	for _, h := range s.holders {
		h.Reset()
	}

	s.logger.Debug("tree reset", "old_root", old, "root", s.root, "nodes", len(s.nodes))
	s.emit(&domain.StructureEvent{Kind: domain.ChangeReset, NodeID: s.root})
	return nil
}

// Walk visits every node in depth-first pre-order.
// Returning false stops the descent into that node's children.
func (s *Store) Walk(fn func(n domain.Node, depth int) bool) {
	s.walk(s.root, 0, fn)
}

func (s *Store) walk(id string, depth int, fn func(domain.Node, int) bool) {
	n, err := s.Node(id)
	if err != nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		s.walk(c, depth+1, fn)
	}
}

// Serialize produces a detached snapshot of the full structure.
func (s *Store) Serialize() domain.Tree {
	return domain.Tree{Root: s.snapshot(s.root)}
}

func (s *Store) snapshot(id string) domain.TreeNode {
	e := s.nodes[id]
	tn := domain.TreeNode{ID: id, Label: e.label, Children: make([]domain.TreeNode, 0, len(e.children))}
	for _, c := range e.children {
		tn.Children = append(tn.Children, s.snapshot(c))
	}
	return tn
}

// Verify checks every structural invariant: single root, no dangling child IDs,
// no node with two parents, no cycles and no unreachable nodes.
func (s *Store) Verify() error {
	if _, ok := s.nodes[s.root]; !ok {
		return fmt.Errorf("%w: root %q missing", domain.ErrInvariantViolation, s.root)
	}
	if _, ok := s.parents[s.root]; ok {
		return fmt.Errorf("%w: root %q has a parent", domain.ErrInvariantViolation, s.root)
	}

	seen := make(map[string]bool, len(s.nodes))
	stack := []string{s.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			return fmt.Errorf("%w: node %q reachable twice", domain.ErrInvariantViolation, id)
		}
		seen[id] = true

		e, ok := s.nodes[id]
		if !ok {
			return fmt.Errorf("%w: dangling child reference %q", domain.ErrInvariantViolation, id)
		}
		for _, c := range e.children {
			if p := s.parents[c]; p != id {
				return fmt.Errorf("%w: parent index of %q is %q, want %q", domain.ErrInvariantViolation, c, p, id)
			}
			stack = append(stack, c)
		}
	}

	if len(seen) != len(s.nodes) {
		return fmt.Errorf("%w: %d unreachable nodes", domain.ErrInvariantViolation, len(s.nodes)-len(seen))
	}
	if len(s.parents) != len(s.nodes)-1 {
		return fmt.Errorf("%w: parent index has %d entries for %d nodes", domain.ErrInvariantViolation, len(s.parents), len(s.nodes))
	}
	return nil
}

func (s *Store) emit(e *domain.StructureEvent) {
	for _, l := range s.listeners {
		l(e)
	}
}
