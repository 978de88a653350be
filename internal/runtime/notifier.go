package runtime

import (
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Notifier collects change notifications while an operation is running and
// delivers them once the outermost operation has completed, so hooks and
// renderers never observe a half-applied edit.
type Notifier struct {
	renderers []ports.Renderer
	hooks     domain.LifecycleHooks

	depth       int
	structure   []*domain.StructureEvent
	interaction *domain.InteractionEvent
}

// NewNotifier creates a notifier delivering to the given hooks and renderers.
func NewNotifier(hooks domain.LifecycleHooks, renderers ...ports.Renderer) *Notifier {
	return &Notifier{hooks: hooks, renderers: renderers}
}

// AddRenderer registers another redraw target.
func (n *Notifier) AddRenderer(r ports.Renderer) {
	n.renderers = append(n.renderers, r)
}

// Structure queues a structural change (Tree Store listener).
func (n *Notifier) Structure(e *domain.StructureEvent) {
	n.structure = append(n.structure, e)
	if n.depth == 0 {
		n.flush()
	}
}

// Interaction records the latest interaction state (Interaction State listener).
// Only the final state of an operation is delivered.
func (n *Notifier) Interaction(e *domain.InteractionEvent) {
	n.interaction = e
	if n.depth == 0 {
		n.flush()
	}
}

// Run executes fn as one logically atomic step. Calls may nest; notifications
// are flushed when the outermost call returns, even when fn fails or panics.
func (n *Notifier) Run(fn func() error) error {
	n.depth++
	defer func() {
		n.depth--
		if n.depth == 0 {
			n.flush()
		}
	}()
	return fn()
}

// Dispatched reports a routed event to the hooks.
func (n *Notifier) Dispatched(ev domain.Event, err error) {
	if n.hooks.OnEventDispatched != nil {
		n.hooks.OnEventDispatched(ev, err)
	}
}

func (n *Notifier) flush() {
	structure, interaction := n.structure, n.interaction
	n.structure, n.interaction = nil, nil

	if len(structure) == 0 && interaction == nil {
		return
	}

	for _, e := range structure {
		if n.hooks.OnStructureChange != nil {
			n.hooks.OnStructureChange(e)
		}
	}
	if interaction != nil && n.hooks.OnInteractionChange != nil {
		n.hooks.OnInteractionChange(interaction)
	}

	// A layout pass repaints as well, so one redraw per operation is enough.
	redraw := domain.Redraw{Kind: domain.RedrawPaint}
	if len(structure) > 0 {
		redraw.Kind = domain.RedrawLayout
	}
	for _, r := range n.renderers {
		r.RequestRedraw(redraw)
	}
}
