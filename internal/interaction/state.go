// Package interaction tracks transient per-node UI state (hover and selection).
//
// The state holds node IDs only, never node data. Nodes are resolved through a
// NodeLookup (the Tree Store) when needed.
package interaction

import (
	"fmt"
	"slices"

	"github.com/aretw0/arbor/pkg/domain"
)

// NodeLookup resolves IDs against the Tree Store.
type NodeLookup interface {
	Contains(id string) bool
	Node(id string) (domain.Node, error)
}

// Listener receives the resulting state after each effective change.
type Listener func(*domain.InteractionEvent)

// State holds the hovered node and the selection set.
type State struct {
	lookup    NodeLookup
	policy    domain.SelectionPolicy
	hovered   string
	selected  []string // insertion ordered, no duplicates
	listeners []Listener
}

// New creates an empty interaction state. An empty policy means single-select.
func New(lookup NodeLookup, policy domain.SelectionPolicy) *State {
	if policy == "" {
		policy = domain.SelectSingle
	}
	return &State{lookup: lookup, policy: policy}
}

// OnChange registers a change listener.
func (s *State) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Policy returns the configured selection policy.
func (s *State) Policy() domain.SelectionPolicy {
	return s.policy
}

// Hovered returns the hovered node ID, if any.
func (s *State) Hovered() (string, bool) {
	return s.hovered, s.hovered != ""
}

// IsHovered reports whether id is the hovered node.
func (s *State) IsHovered(id string) bool {
	return id != "" && s.hovered == id
}

// SetHovered makes id the single hovered node; "" clears the hover.
// Setting the current value again is a no-op.
func (s *State) SetHovered(id string) error {
	if id == s.hovered {
		return nil
	}
	if id != "" && !s.lookup.Contains(id) {
		return fmt.Errorf("%w: cannot hover %q", domain.ErrNotFound, id)
	}
	s.hovered = id
	s.emit()
	return nil
}

// Select replaces the selection atomically. Duplicate IDs are collapsed.
// Under the single policy more than one distinct ID is rejected.
func (s *State) Select(ids []string) error {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	if s.policy == domain.SelectSingle && len(next) > 1 {
		return fmt.Errorf("%w: single-select policy accepts one node, got %d", domain.ErrInvalidOperation, len(next))
	}
	for _, id := range next {
		if !s.lookup.Contains(id) {
			return fmt.Errorf("%w: cannot select %q", domain.ErrNotFound, id)
		}
	}
	if slices.Equal(next, s.selected) {
		return nil
	}
	s.selected = next
	s.emit()
	return nil
}

// Toggle adds id to the selection, or removes it if already selected.
// Under the single policy adding replaces the previous selection.
func (s *State) Toggle(id string) error {
	if s.IsSelected(id) {
		return s.Select(slices.DeleteFunc(slices.Clone(s.selected), func(x string) bool { return x == id }))
	}
	if s.policy == domain.SelectSingle {
		return s.Select([]string{id})
	}
	return s.Select(append(slices.Clone(s.selected), id))
}

// IsSelected reports whether id is selected.
func (s *State) IsSelected(id string) bool {
	return slices.Contains(s.selected, id)
}

// SelectedIDs returns a copy of the selected IDs in selection order (never nil).
func (s *State) SelectedIDs() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// CurrentSelection resolves the selected IDs to nodes.
// A stale ID is a bug (removal should have purged it) and yields ErrInvariantViolation.
func (s *State) CurrentSelection() ([]domain.Node, error) {
	nodes := make([]domain.Node, 0, len(s.selected))
	for _, id := range s.selected {
		n, err := s.lookup.Node(id)
		if err != nil {
			return nil, fmt.Errorf("%w: selection references missing node %q", domain.ErrInvariantViolation, id)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Verify checks that hover and selection only reference live nodes.
func (s *State) Verify() error {
	if s.hovered != "" && !s.lookup.Contains(s.hovered) {
		return fmt.Errorf("%w: hover references missing node %q", domain.ErrInvariantViolation, s.hovered)
	}
	if _, err := s.CurrentSelection(); err != nil {
		return err
	}
	return nil
}

// ClearReferencesTo drops id from hover and selection. It never errors.
func (s *State) ClearReferencesTo(id string) {
	changed := false
	if s.hovered == id {
		s.hovered = ""
		changed = true
	}
	if i := slices.Index(s.selected, id); i >= 0 {
		s.selected = slices.Delete(s.selected, i, i+1)
		changed = true
	}
	if changed {
		s.emit()
	}
}

// Reset clears hover and selection.
func (s *State) Reset() {
	if s.hovered == "" && len(s.selected) == 0 {
		return
	}
	s.hovered = ""
	s.selected = nil
	s.emit()
}

// Snapshot returns the current state as an event value.
func (s *State) Snapshot() domain.InteractionEvent {
	return domain.InteractionEvent{Hovered: s.hovered, Selected: s.SelectedIDs()}
}

func (s *State) emit() {
	if len(s.listeners) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, l := range s.listeners {
		l(&snap)
	}
}
