package arbor

import (
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// SyncEditor serializes access to an Editor behind a single mutex.
// Adapters serving several goroutines (HTTP handlers, MCP sessions) share one SyncEditor.
//
// Renderers and hooks run while the lock is held; they must not call back into the SyncEditor.
type SyncEditor struct {
	mu sync.Mutex
	ed *Editor
}

// Synchronized wraps ed. The caller must stop using ed directly.
func Synchronized(ed *Editor) *SyncEditor {
	return &SyncEditor{ed: ed}
}

// Do runs fn with exclusive access to the underlying Editor.
func (s *SyncEditor) Do(fn func(ed *Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ed)
}

// AddRenderer registers another redraw target.
func (s *SyncEditor) AddRenderer(r ports.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ed.AddRenderer(r)
}

// Dispatch routes one renderer event under the lock.
func (s *SyncEditor) Dispatch(ev domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Dispatch(ev)
}

// AddChildToSelection appends a child to the single selected node.
func (s *SyncEditor) AddChildToSelection(spec domain.NodeSpec) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.AddChildToSelection(spec)
}

// AddChild appends a child to parentID.
func (s *SyncEditor) AddChild(parentID string, spec domain.NodeSpec) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.AddChild(parentID, spec)
}

// RemoveSelection removes the selected node and its subtree.
func (s *SyncEditor) RemoveSelection() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.RemoveSelection()
}

// Relabel changes a node's label. An empty label resets it to the ID.
func (s *SyncEditor) Relabel(id, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Relabel(id, label)
}

// Reset restores the configured root and seed and clears interaction state.
func (s *SyncEditor) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Reset()
}

// ExportTree returns a detached snapshot of the tree.
func (s *SyncEditor) ExportTree() domain.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.ExportTree()
}

// Node returns a copy of the node with the given ID.
func (s *SyncEditor) Node(id string) (domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Node(id)
}

// CurrentSelection resolves the selected IDs to nodes.
func (s *SyncEditor) CurrentSelection() ([]domain.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.CurrentSelection()
}

// Interaction returns the current hover and selection.
func (s *SyncEditor) Interaction() domain.InteractionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Interaction()
}

// Status returns the router's hover and selection phases.
func (s *SyncEditor) Status() domain.RouterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Status()
}

// Snapshot returns the tree and the interaction state read under one lock.
func (s *SyncEditor) Snapshot() (domain.Tree, domain.InteractionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.ExportTree(), s.ed.Interaction()
}

// Verify checks the tree and interaction invariants.
func (s *SyncEditor) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Verify()
}
