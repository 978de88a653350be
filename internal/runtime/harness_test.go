package runtime_test

import (
	"testing"

	"github.com/aretw0/arbor/internal/idgen"
	"github.com/aretw0/arbor/internal/interaction"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/internal/tree"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/stretchr/testify/require"
)

// harness wires the full core the same way the editor façade does.
type harness struct {
	store      *tree.Store
	state      *interaction.State
	controller *runtime.Controller
	router     *runtime.Router
	redraws    []domain.Redraw
	structure  []domain.StructureEvent
	dispatched []domain.Event
}

func newHarness(t *testing.T, policy domain.SelectionPolicy, opts ...runtime.RouterOption) *harness {
	t.Helper()
	h := &harness{}

	store, err := tree.New(idgen.NewSequential(""), "R")
	require.NoError(t, err)
	state := interaction.New(store, policy)
	store.AddReferenceHolder(state)

	hooks := domain.LifecycleHooks{
		OnStructureChange: func(e *domain.StructureEvent) { h.structure = append(h.structure, *e) },
		OnEventDispatched: func(ev domain.Event, _ error) { h.dispatched = append(h.dispatched, ev) },
	}
	notifier := runtime.NewNotifier(hooks, ports.RendererFunc(func(r domain.Redraw) {
		h.redraws = append(h.redraws, r)
	}))
	store.OnChange(notifier.Structure)
	state.OnChange(notifier.Interaction)

	h.store = store
	h.state = state
	h.controller = runtime.NewController(store, state, notifier)
	h.router = runtime.NewRouter(store, state, h.controller, notifier, opts...)
	return h
}

// child adds a labelled child directly through the controller.
func (h *harness) child(t *testing.T, parent, label string) string {
	t.Helper()
	id, err := h.controller.AddChildTo(parent, domain.NodeSpec{Label: label})
	require.NoError(t, err)
	return id
}

func (h *harness) dispatch(t *testing.T, ev domain.Event) {
	t.Helper()
	require.NoError(t, h.router.Dispatch(ev))
}
