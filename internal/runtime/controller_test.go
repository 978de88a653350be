package runtime_test

import (
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_AddRemoveScenario(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	root := h.store.Root()
	a := h.child(t, root, "A")

	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{a}})

	n1, err := h.controller.AddChildToSelection(domain.NodeSpec{})
	require.NoError(t, err)

	snap := h.controller.ExportTree()
	require.Len(t, snap.Root.Children, 1)
	assert.Equal(t, a, snap.Root.Children[0].ID)
	require.Len(t, snap.Root.Children[0].Children, 1)
	assert.Equal(t, n1, snap.Root.Children[0].Children[0].ID)
	assert.Equal(t, []string{a}, h.state.SelectedIDs(), "the parent stays selected, the child starts unselected")

	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{n1}})
	require.NoError(t, h.controller.RemoveSelection())

	snap = h.controller.ExportTree()
	require.Len(t, snap.Root.Children, 1)
	assert.Empty(t, snap.Root.Children[0].Children)

	sel, err := h.state.CurrentSelection()
	require.NoError(t, err)
	assert.Empty(t, sel)
}

func TestController_AddChildToSelection_NoSelection(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	h.child(t, h.store.Root(), "A")
	before := h.controller.ExportTree()

	_, err := h.controller.AddChildToSelection(domain.NodeSpec{})
	assert.ErrorIs(t, err, domain.ErrNoSelection)
	assert.Equal(t, before, h.controller.ExportTree(), "a failed add leaves the tree unchanged")
}

func TestController_MultiSelectionIsNotASelection(t *testing.T) {
	h := newHarness(t, domain.SelectMulti)
	a := h.child(t, h.store.Root(), "A")
	b := h.child(t, h.store.Root(), "B")
	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{a, b}})

	_, err := h.controller.AddChildToSelection(domain.NodeSpec{})
	assert.ErrorIs(t, err, domain.ErrNoSelection)
	assert.ErrorIs(t, h.controller.RemoveSelection(), domain.ErrNoSelection)
}

func TestController_RemoveSelection_Root(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{h.store.Root()}})

	err := h.controller.RemoveSelection()
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, 1, h.store.Len())
	assert.Equal(t, []string{h.store.Root()}, h.state.SelectedIDs())
}

func TestController_RemoveSelection_NoSelection(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	assert.ErrorIs(t, h.controller.RemoveSelection(), domain.ErrNoSelection)
}

func TestController_RemoveClearsHoveredDescendant(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	a := h.child(t, h.store.Root(), "A")
	deep := h.child(t, a, "deep")

	h.dispatch(t, domain.Event{Type: domain.EventEnter, NodeID: deep})
	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{a}})
	require.NoError(t, h.controller.RemoveSelection())

	_, hovered := h.state.Hovered()
	assert.False(t, hovered)
	assert.Empty(t, h.state.SelectedIDs())
	assert.NoError(t, h.state.Verify())
}

func TestController_RemoveEmitsSingleLayoutRedraw(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	a := h.child(t, h.store.Root(), "A")
	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{a}})
	h.redraws = nil

	require.NoError(t, h.controller.RemoveSelection())

	// The purge of the selection and the removal are one atomic step.
	assert.Equal(t, []domain.Redraw{{Kind: domain.RedrawLayout}}, h.redraws)
}

func TestController_Relabel(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	a := h.child(t, h.store.Root(), "")

	require.NoError(t, h.controller.Relabel(a, "Alpha"))
	n, err := h.store.Node(a)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", n.Label)

	assert.ErrorIs(t, h.controller.Relabel("ghost", "x"), domain.ErrNotFound)
}

func TestController_Reset(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	a := h.child(t, h.store.Root(), "A")
	h.dispatch(t, domain.Event{Type: domain.EventEnter, NodeID: a})
	h.dispatch(t, domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{a}})

	require.NoError(t, h.controller.Reset("fresh", []domain.SeedNode{{Label: "X"}}))

	snap := h.controller.ExportTree()
	assert.Equal(t, "fresh", snap.Root.Label)
	require.Len(t, snap.Root.Children, 1)
	assert.Equal(t, "X", snap.Root.Children[0].Label)
	assert.Equal(t, domain.InteractionEvent{Selected: []string{}}, h.state.Snapshot())
}

func TestController_ExportTree_IsReadOnly(t *testing.T) {
	h := newHarness(t, domain.SelectSingle)
	h.child(t, h.store.Root(), "A")
	h.redraws = nil

	snap := h.controller.ExportTree()
	snap.Root.Children = nil

	assert.Len(t, h.controller.ExportTree().Root.Children, 1)
	assert.Empty(t, h.redraws, "export has no side effects")
}
