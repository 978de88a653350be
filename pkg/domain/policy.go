package domain

import "fmt"

// SelectionPolicy controls how many nodes may be selected at once.
type SelectionPolicy string

const (
	// SelectSingle replaces the selection with at most one node (default).
	SelectSingle SelectionPolicy = "single"
	// SelectMulti allows any number of nodes to be selected.
	SelectMulti SelectionPolicy = "multi"
)

// ParseSelectionPolicy converts a config string into a SelectionPolicy. Empty means single.
func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch SelectionPolicy(s) {
	case "", SelectSingle:
		return SelectSingle, nil
	case SelectMulti:
		return SelectMulti, nil
	}
	return "", fmt.Errorf("unknown selection policy %q (expected single or multi)", s)
}

// ClickMode controls what a click on a node does.
type ClickMode string

const (
	// ClickAddChild appends a new child under the clicked node.
	ClickAddChild ClickMode = "add-child"
	// ClickSelect toggles the clicked node in the selection.
	ClickSelect ClickMode = "select"
	// ClickNone ignores clicks.
	ClickNone ClickMode = "none"
)

// ParseClickMode converts a config string into a ClickMode. Empty means add-child.
func ParseClickMode(s string) (ClickMode, error) {
	switch ClickMode(s) {
	case "", ClickAddChild:
		return ClickAddChild, nil
	case ClickSelect:
		return ClickSelect, nil
	case ClickNone:
		return ClickNone, nil
	}
	return "", fmt.Errorf("unknown click mode %q (expected add-child, select or none)", s)
}

// HoverPhase is the hover half of the router state machine.
type HoverPhase string

const (
	HoverIdle    HoverPhase = "idle"
	HoverHovered HoverPhase = "hovered"
)

// SelectionPhase is the selection half of the router state machine.
type SelectionPhase string

const (
	SelectionIdle     SelectionPhase = "idle"
	SelectionSelected SelectionPhase = "selected"
)

// RouterStatus is the enumerable router state: idle or hovered(id), idle or selected(ids).
type RouterStatus struct {
	Hover     HoverPhase     `json:"hover"`
	HoveredID string         `json:"hoveredId,omitempty"`
	Selection SelectionPhase `json:"selection"`
	Selected  []string       `json:"selected"`
}
