package runtime

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/interaction"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/tree"
	"github.com/aretw0/arbor/pkg/domain"
)

// Router is a synchronous dispatcher over the fixed set of interaction events.
// Events are processed strictly one at a time, in call order.
type Router struct {
	store      *tree.Store
	state      *interaction.State
	controller *Controller
	notifier   *Notifier
	clickMode  domain.ClickMode
	logger     *slog.Logger
}

// RouterOption configures the Router.
type RouterOption func(*Router)

// WithClickMode sets what a click on a node does.
func WithClickMode(mode domain.ClickMode) RouterOption {
	return func(r *Router) {
		if mode != "" {
			r.clickMode = mode
		}
	}
}

// WithRouterLogger sets the logger used by the Router.
func WithRouterLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates a Router. Structural edits are delegated to the controller.
func NewRouter(store *tree.Store, state *interaction.State, controller *Controller, notifier *Notifier, opts ...RouterOption) *Router {
	r := &Router{
		store:      store,
		state:      state,
		controller: controller,
		notifier:   notifier,
		clickMode:  domain.ClickAddChild,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ClickMode returns the configured click behavior.
func (r *Router) ClickMode() domain.ClickMode {
	return r.clickMode
}

// Dispatch applies a single event. The whole event, including any cascade, is
// complete before Dispatch returns and before any redraw is requested.
func (r *Router) Dispatch(ev domain.Event) error {
	err := ev.Validate()
	if err == nil {
		err = r.notifier.Run(func() error {
			return r.apply(ev)
		})
	}

	switch {
	case err == nil:
		r.logger.Debug("event dispatched", "type", ev.Type, "node_id", ev.NodeID)
	case errors.Is(err, domain.ErrInvariantViolation):
		r.logger.Error("event aborted", "type", ev.Type, "node_id", ev.NodeID, "error", err)
	default:
		r.logger.Debug("event rejected", "type", ev.Type, "node_id", ev.NodeID, "error", err)
	}
	r.notifier.Dispatched(ev, err)
	return err
}

func (r *Router) apply(ev domain.Event) error {
	switch ev.Type {
	case domain.EventEnter:
		return r.enter(ev.NodeID)
	case domain.EventLeave:
		return r.leave(ev.NodeID)
	case domain.EventClick:
		return r.click(ev.NodeID)
	case domain.EventSelectionChange:
		return r.state.Select(ev.SelectedIDs)
	}
	return fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidOperation, ev.Type)
}

// enter moves hover to id: hovered(a) -> hovered(b) clears a before setting b.
func (r *Router) enter(id string) error {
	if !r.store.Contains(id) {
		return fmt.Errorf("%w: enter on %q", domain.ErrNotFound, id)
	}
	if r.state.IsHovered(id) {
		return nil
	}
	if err := r.state.SetHovered(""); err != nil {
		return err
	}
	return r.state.SetHovered(id)
}

// leave clears hover only when id is the hovered node. A late leave for a node
// that is no longer hovered (or no longer exists) is ignored.
func (r *Router) leave(id string) error {
	if !r.state.IsHovered(id) {
		return nil
	}
	return r.state.SetHovered("")
}

func (r *Router) click(id string) error {
	if !r.store.Contains(id) {
		return fmt.Errorf("%w: click on %q", domain.ErrNotFound, id)
	}
	switch r.clickMode {
	case domain.ClickAddChild:
		_, err := r.controller.AddChildTo(id, domain.NodeSpec{})
		return err
	case domain.ClickSelect:
		return r.state.Toggle(id)
	}
	return nil
}

// Status reports the current phase of both state machines.
func (r *Router) Status() domain.RouterStatus {
	st := domain.RouterStatus{Hover: domain.HoverIdle, Selection: domain.SelectionIdle, Selected: r.state.SelectedIDs()}
	if id, ok := r.state.Hovered(); ok {
		st.Hover = domain.HoverHovered
		st.HoveredID = id
	}
	if len(st.Selected) > 0 {
		st.Selection = domain.SelectionSelected
	}
	return st
}
