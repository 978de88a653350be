package domain

import "fmt"

// EventType names a raw interaction event emitted by the Renderer.
type EventType string

const (
	EventEnter           EventType = "enter"
	EventLeave           EventType = "leave"
	EventClick           EventType = "click"
	EventSelectionChange EventType = "selectionChange"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventEnter, EventLeave, EventClick, EventSelectionChange:
		return true
	}
	return false
}

// Event is the minimal interaction schema consumed from the Renderer.
// NodeID is required for enter, leave and click; SelectedIDs is used by selectionChange.
type Event struct {
	Type        EventType `json:"type" yaml:"type" mapstructure:"type"`
	NodeID      string    `json:"nodeId,omitempty" yaml:"nodeId,omitempty" mapstructure:"nodeId"`
	SelectedIDs []string  `json:"selectedIds,omitempty" yaml:"selectedIds,omitempty" mapstructure:"selectedIds"`
}

// Validate checks the shape of the event, not the existence of the referenced nodes.
func (e Event) Validate() error {
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidOperation, e.Type)
	}
	if e.Type != EventSelectionChange && e.NodeID == "" {
		return fmt.Errorf("%w: %s event requires a node id", ErrInvalidOperation, e.Type)
	}
	return nil
}

// RedrawKind tells the Renderer how much work a redraw needs.
type RedrawKind string

const (
	// RedrawLayout follows a structural edit: layout must be recomputed from a fresh snapshot.
	RedrawLayout RedrawKind = "layout"
	// RedrawPaint follows an interaction change: only node states (hover/selected) changed.
	RedrawPaint RedrawKind = "paint"
)

// Redraw is the push notification sent to the Renderer after a logically atomic operation.
type Redraw struct {
	Kind RedrawKind `json:"kind"`
}

// ChangeKind identifies the structural operation that produced a change.
type ChangeKind string

const (
	ChangeAdd    ChangeKind = "add"
	ChangeRemove ChangeKind = "remove"
	ChangeUpdate ChangeKind = "update"
	ChangeReset  ChangeKind = "reset"
	ChangeSeed   ChangeKind = "seed"
)

// StructureEvent describes a completed structural edit.
type StructureEvent struct {
	Kind   ChangeKind `json:"kind"`
	NodeID string     `json:"node_id,omitempty"`
	// ParentID is set for additions and removals.
	ParentID string `json:"parent_id,omitempty"`
	// Removed lists every ID detached by a subtree removal.
	Removed []string `json:"removed,omitempty"`
}

// InteractionEvent describes a completed change to hover or selection state.
type InteractionEvent struct {
	Hovered  string   `json:"hovered,omitempty"`
	Selected []string `json:"selected"`
}

// LifecycleHooks defines callbacks for editor observability.
// Hooks run synchronously after the operation they describe is complete.
type LifecycleHooks struct {
	OnStructureChange   func(*StructureEvent)
	OnInteractionChange func(*InteractionEvent)
	OnEventDispatched   func(Event, error)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStructureChange: func(e *StructureEvent) {
			if h.OnStructureChange != nil {
				h.OnStructureChange(e)
			}
			if other.OnStructureChange != nil {
				other.OnStructureChange(e)
			}
		},
		OnInteractionChange: func(e *InteractionEvent) {
			if h.OnInteractionChange != nil {
				h.OnInteractionChange(e)
			}
			if other.OnInteractionChange != nil {
				other.OnInteractionChange(e)
			}
		},
		OnEventDispatched: func(e Event, err error) {
			if h.OnEventDispatched != nil {
				h.OnEventDispatched(e, err)
			}
			if other.OnEventDispatched != nil {
				other.OnEventDispatched(e, err)
			}
		},
	}
}
