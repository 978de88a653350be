package arbor

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/arbor/internal/idgen"
	"github.com/aretw0/arbor/internal/interaction"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/internal/tree"
	"github.com/aretw0/arbor/pkg/config"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Editor is the high-level entry point for the arbor library.
// It owns one Tree Store and one Interaction State and exposes the Event Router
// and Edit Controller on top of them.
//
// An Editor is single-threaded. Use Synchronized to share it between goroutines.
type Editor struct {
	store      *tree.Store
	state      *interaction.State
	notifier   *runtime.Notifier
	controller *runtime.Controller
	router     *runtime.Router

	generator ports.IDGenerator
	policy    domain.SelectionPolicy
	clickMode domain.ClickMode
	renderers []ports.Renderer
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	rootLabel string
	seed      []domain.SeedNode
}

// Option defines a functional option for configuring the Editor.
type Option func(*Editor)

// WithLogger sets a custom structured logger for the editor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}

// WithRenderer registers a Renderer to receive redraw requests. It may be repeated.
func WithRenderer(r ports.Renderer) Option {
	return func(e *Editor) {
		e.renderers = append(e.renderers, r)
	}
}

// WithSelectionPolicy sets single- or multi-select (default: single).
func WithSelectionPolicy(p domain.SelectionPolicy) Option {
	return func(e *Editor) {
		e.policy = p
	}
}

// WithClickMode sets what a click on a node does (default: add a child).
func WithClickMode(m domain.ClickMode) Option {
	return func(e *Editor) {
		e.clickMode = m
	}
}

// WithIDGenerator replaces the default sequential ID generator.
func WithIDGenerator(g ports.IDGenerator) Option {
	return func(e *Editor) {
		e.generator = g
	}
}

// WithRootLabel sets the label of the root node (default: "root").
func WithRootLabel(label string) Option {
	return func(e *Editor) {
		e.rootLabel = label
	}
}

// WithSeed pre-populates the tree under the root. The seed is reapplied on Reset.
func WithSeed(seed []domain.SeedNode) Option {
	return func(e *Editor) {
		e.seed = seed
	}
}

// WithLifecycleHooks registers observability hooks. It may be repeated; hooks are chained.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Editor) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// New initializes a new Editor holding a root node (plus the optional seed).
func New(opts ...Option) (*Editor, error) {
	ed := &Editor{
		policy:    domain.SelectSingle,
		clickMode: domain.ClickAddChild,
		rootLabel: domain.DefaultRootLabel,
	}
	for _, opt := range opts {
		opt(ed)
	}

	if ed.logger == nil {
		ed.logger = logging.NewNop()
	}
	if ed.generator == nil {
		ed.generator = idgen.NewSequential("")
	}

	store, err := tree.New(ed.generator, ed.rootLabel, tree.WithLogger(ed.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create tree store: %w", err)
	}
	if err := store.Seed(store.Root(), ed.seed); err != nil {
		return nil, fmt.Errorf("failed to seed tree: %w", err)
	}

	state := interaction.New(store, ed.policy)
	store.AddReferenceHolder(state)

	ed.notifier = runtime.NewNotifier(ed.hooks, ed.renderers...)
	store.OnChange(ed.notifier.Structure)
	state.OnChange(ed.notifier.Interaction)

	ed.store = store
	ed.state = state
	ed.controller = runtime.NewController(store, state, ed.notifier,
		runtime.WithControllerLogger(ed.logger))
	ed.router = runtime.NewRouter(store, state, ed.controller, ed.notifier,
		runtime.WithClickMode(ed.clickMode),
		runtime.WithRouterLogger(ed.logger))

	ed.logger.Debug("editor ready", "root", store.Root(), "nodes", store.Len(), "policy", ed.policy, "click", ed.clickMode)
	return ed, nil
}

// NewFromConfig builds an Editor from a loaded configuration.
// Extra options are applied after the configuration (and may override it).
func NewFromConfig(cfg config.Config, opts ...Option) (*Editor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, _ := domain.ParseSelectionPolicy(cfg.SelectionPolicy)
	click, _ := domain.ParseClickMode(cfg.ClickMode)
	gen, _ := idgen.New(cfg.IDs.Strategy, cfg.IDs.Prefix)

	base := []Option{
		WithSelectionPolicy(policy),
		WithClickMode(click),
		WithIDGenerator(gen),
		WithRootLabel(cfg.Root.Label),
		WithSeed(cfg.Root.Children),
	}
	return New(append(base, opts...)...)
}

// AddRenderer registers a Renderer after construction.
func (e *Editor) AddRenderer(r ports.Renderer) {
	e.notifier.AddRenderer(r)
}

// Dispatch routes a raw interaction event from the Renderer.
func (e *Editor) Dispatch(ev domain.Event) error {
	return e.router.Dispatch(ev)
}

// AddChildToSelection appends a new child under the single selected node.
func (e *Editor) AddChildToSelection(spec domain.NodeSpec) (string, error) {
	return e.controller.AddChildToSelection(spec)
}

// AddChild appends a new child under an explicit parent.
func (e *Editor) AddChild(parentID string, spec domain.NodeSpec) (string, error) {
	return e.controller.AddChildTo(parentID, spec)
}

// RemoveSelection removes the single selected node and its subtree.
func (e *Editor) RemoveSelection() error {
	return e.controller.RemoveSelection()
}

// Relabel changes a node's label. An empty label restores the default (the ID).
func (e *Editor) Relabel(id, label string) error {
	return e.controller.Relabel(id, label)
}

// Reset discards the tree and interaction state and rebuilds the initial tree.
func (e *Editor) Reset() error {
	return e.controller.Reset(e.rootLabel, e.seed)
}

// ExportTree returns a detached snapshot of the tree.
func (e *Editor) ExportTree() domain.Tree {
	return e.controller.ExportTree()
}

// Node returns a read-only view of a node.
func (e *Editor) Node(id string) (domain.Node, error) {
	return e.store.Node(id)
}

// Root returns the root node ID.
func (e *Editor) Root() string {
	return e.store.Root()
}

// CurrentSelection resolves the selected nodes.
func (e *Editor) CurrentSelection() ([]domain.Node, error) {
	return e.state.CurrentSelection()
}

// Hovered returns the hovered node ID, if any.
func (e *Editor) Hovered() (string, bool) {
	return e.state.Hovered()
}

// Interaction returns the current hover and selection IDs.
func (e *Editor) Interaction() domain.InteractionEvent {
	return e.state.Snapshot()
}

// Status reports the router state machine phases.
func (e *Editor) Status() domain.RouterStatus {
	return e.router.Status()
}

// Verify checks every structural and interaction invariant.
func (e *Editor) Verify() error {
	if err := e.store.Verify(); err != nil {
		return err
	}
	return e.state.Verify()
}

// Policy returns the selection policy.
func (e *Editor) Policy() domain.SelectionPolicy {
	return e.policy
}

// ClickMode returns the click behavior.
func (e *Editor) ClickMode() domain.ClickMode {
	return e.clickMode
}
