package runtime_test

import (
	"testing"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_HoverTransitions(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	a := h.child(t, h.store.Root(), "A")
	b := h.child(t, h.store.Root(), "B")

	assert.Equal(t, domain.HoverIdle, h.router.Status().Hover)

	h.dispatch(t, domain.Event{Type: domain.EventEnter, NodeID: a})
	st := h.router.Status()
	assert.Equal(t, domain.HoverHovered, st.Hover)
	assert.Equal(t, a, st.HoveredID)

	// hovered(a) -> hovered(b) without an intervening leave
	h.dispatch(t, domain.Event{Type: domain.EventEnter, NodeID: b})
	assert.False(t, h.state.IsHovered(a))
	assert.True(t, h.state.IsHovered(b))

	// The late leave for a must not clear b.
	h.dispatch(t, domain.Event{Type: domain.EventLeave, NodeID: a})
	assert.True(t, h.state.IsHovered(b))

	h.dispatch(t, domain.Event{Type: domain.EventLeave, NodeID: b})
	assert.Equal(t, domain.HoverIdle, h.router.Status().Hover)
}

func TestRouter_EnterUnknownNode(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)

	err := h.router.Dispatch(domain.Event{Type: domain.EventEnter, NodeID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.HoverIdle, h.router.Status().Hover)
}

func TestRouter_LeaveRemovedNodeIsIgnored(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	a := h.child(t, h.store.Root(), "A")
	h.dispatch(t, domain.Event{Type: domain.EventEnter, NodeID: a})
	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{a}})
	require.NoError(t, h.controller.RemoveSelection())

	assert.NoError(t, h.router.Dispatch(domain.Event{Type: domain.EventLeave, NodeID: a}))
}

func TestRouter_SelectionTransitions(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	a := h.child(t, h.store.Root(), "A")
	b := h.child(t, h.store.Root(), "B")

	err := h.router.Dispatch(domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{a, b}})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, domain.SelectionIdle, h.router.Status().Selection)

	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{a}})
	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{b}})
	st := h.router.Status()
	assert.Equal(t, domain.SelectionSelected, st.Selection)
	assert.Equal(t, []string{b}, st.Selected)

	// Deselect
	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange})
	assert.Equal(t, domain.SelectionIdle, h.router.Status().Selection)
}

func TestRouter_ClickAddsChild(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	a := h.child(t, h.store.Root(), "A")

	h.dispatch(t, domain.Event{Type: domain.EventClick, NodeID: a})
	h.dispatch(t, domain.Event{Type: domain.EventClick, NodeID: a})

	n, err := h.store.Node(a)
	require.NoError(t, err)
	assert.Len(t, n.Children, 2, "each click appends a new child")
	assert.NotEqual(t, n.Children[0], n.Children[1])
	assert.Empty(t, h.state.SelectedIDs())

	err = h.router.Dispatch(domain.Event{Type: domain.EventClick, NodeID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRouter_ClickSelects(t *testing.T) {
	h := newHarness(t, domain.SelectSingle, runtime.WithClickMode(domain.ClickSelect))
	a := h.child(t, h.store.Root(), "A")
	b := h.child(t, h.store.Root(), "B")
	assert.Equal(t, domain.ClickSelect, h.router.ClickMode())

	h.dispatch(t, domain.Event{Type: domain.EventClick, NodeID: a})
	h.dispatch(t, domain.Event{Type: domain.EventClick, NodeID: b})
	assert.Equal(t, []string{b}, h.state.SelectedIDs())

	h.dispatch(t, domain.Event{Type: domain.EventClick, NodeID: b})
	assert.Empty(t, h.state.SelectedIDs())
	assert.Equal(t, 3, h.store.Len(), "select mode never edits the tree")
}

func TestRouter_ClickNone(t *testing.T) {
	h := newHarness(t, domain.SelectSingle, runtime.WithClickMode(domain.ClickNone))
	a := h.child(t, h.store.Root(), "A")
	h.redraws = nil

	h.dispatch(t, domain.Event{Type: domain.EventClick, NodeID: a})
	assert.Equal(t, 2, h.store.Len())
	assert.Empty(t, h.redraws)
}

func TestRouter_InvalidEvents(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)

	assert.ErrorIs(t, h.router.Dispatch(domain.Event{Type: "drag", NodeID: "x"}), domain.ErrInvalidOperation)
	assert.ErrorIs(t, h.router.Dispatch(domain.Event{Type: domain.EventEnter}), domain.ErrInvalidOperation)
	assert.Len(t, h.dispatched, 2, "rejected events are still reported to hooks")
}

func TestRouter_Redraws(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	a := h.child(t, h.store.Root(), "A")
	h.redraws = nil

	h.dispatch(t, domain.Event{Type: domain.EventEnter, NodeID: a})
	h.dispatch(t, domain.Event{Type: domain.EventEnter, NodeID: a}) // no change, no redraw
	h.dispatch(t, domain.Event{Type: domain.EventClick, NodeID: a})

	assert.Equal(t, []domain.Redraw{
		{Kind: domain.RedrawPaint},
		{Kind: domain.RedrawLayout},
	}, h.redraws)
}
