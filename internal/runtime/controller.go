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

// Controller implements the user-facing edit operations.
// It is the only path through which the Tree Store is mutated.
type Controller struct {
	store    *tree.Store
	state    *interaction.State
	notifier *Notifier
	logger   *slog.Logger
}

// ControllerOption configures the Controller.
type ControllerOption func(*Controller)

// WithControllerLogger sets the logger used by the Controller.
func WithControllerLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController composes a Tree Store and an Interaction State.
func NewController(store *tree.Store, state *interaction.State, notifier *Notifier, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:    store,
		state:    state,
		notifier: notifier,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddChildToSelection appends a new child under the single selected node.
// The selection is left unchanged: the parent stays selected, the child starts unselected.
func (c *Controller) AddChildToSelection(spec domain.NodeSpec) (string, error) {
	var id string
	err := c.notifier.Run(func() error {
		parentID, err := c.soleSelection()
		if err != nil {
			return err
		}
		id, err = c.store.AddChild(parentID, spec)
		return err
	})
	return id, c.report("add child to selection", err)
}

// AddChildTo appends a new child under an explicit parent (click-to-add).
func (c *Controller) AddChildTo(parentID string, spec domain.NodeSpec) (string, error) {
	var id string
	err := c.notifier.Run(func() error {
		var err error
		id, err = c.store.AddChild(parentID, spec)
		return err
	})
	return id, c.report("add child", err)
}

// RemoveSelection removes the single selected node and its subtree.
// The store purges the interaction state before returning.
func (c *Controller) RemoveSelection() error {
	err := c.notifier.Run(func() error {
		id, err := c.soleSelection()
		if err != nil {
			return err
		}
		if id == c.store.Root() {
			return fmt.Errorf("%w: the root node cannot be removed", domain.ErrInvalidOperation)
		}
		if err := c.store.RemoveSubtree(id); err != nil {
			return err
		}
		// The cascade must have cleared every reference to the removed subtree.
		return c.state.Verify()
	})
	return c.report("remove selection", err)
}

// Relabel changes the display label of a node. An empty label restores the default.
func (c *Controller) Relabel(id, label string) error {
	err := c.notifier.Run(func() error {
		return c.store.UpdateNode(id, domain.NodeUpdate{Label: &label})
	})
	return c.report("relabel", err)
}

// Reset replaces the tree with a fresh root and clears interaction state.
func (c *Controller) Reset(rootLabel string, seed []domain.SeedNode) error {
	err := c.notifier.Run(func() error {
		return c.store.Reset(rootLabel, seed...)
	})
	return c.report("reset", err)
}

// ExportTree returns a detached snapshot. It has no side effects.
func (c *Controller) ExportTree() domain.Tree {
	return c.store.Serialize()
}

// soleSelection returns the single selected ID, or ErrNoSelection.
func (c *Controller) soleSelection() (string, error) {
	ids := c.state.SelectedIDs()
	if len(ids) != 1 {
		return "", fmt.Errorf("%w: exactly one node must be selected, got %d", domain.ErrNoSelection, len(ids))
	}
	if !c.store.Contains(ids[0]) {
		return "", fmt.Errorf("%w: selection references missing node %q", domain.ErrInvariantViolation, ids[0])
	}
	return ids[0], nil
}

func (c *Controller) report(op string, err error) error {
	switch {
	case err == nil:
		c.logger.Debug("edit applied", "op", op)
	case errors.Is(err, domain.ErrInvariantViolation):
		c.logger.Error("edit aborted", "op", op, "error", err)
	default:
		c.logger.Debug("edit rejected", "op", op, "error", err)
	}
	return err
}
