/*
Package arbor is the core of an interactive tree-diagram editor.

It owns the tree structure (Tree Store), the transient hover and selection state
(Interaction State), and the logic that turns raw Renderer events into state
changes (Event Router) or user edits (Edit Controller). Drawing, layout and camera
belong to an external Renderer, which pulls snapshots with ExportTree and is told
when to redraw through the ports.Renderer interface.

# Concept

Every node is identified by a generated, immutable ID. The store is the only owner
of structure: callers receive copies, and all edits go through typed operations.
Interaction state holds IDs only and is purged as part of any removal, so no stale
ID is ever observable between operations.

# Usage

	ed, err := arbor.New(
		arbor.WithRootLabel("Ideas"),
		arbor.WithRenderer(ports.RendererFunc(func(r domain.Redraw) {
			// re-layout or repaint from ed.ExportTree()
		})),
	)
	if err != nil {
		log.Fatal(err)
	}

	// Renderer events
	_ = ed.Dispatch(domain.Event{Type: domain.EventSelectionChange, SelectedIDs: []string{ed.Root()}})

	// User edits
	id, err := ed.AddChildToSelection(domain.NodeSpec{Label: "first"})

An Editor is single-threaded. Wrap it with Synchronized before sharing it between
goroutines, as the HTTP and MCP adapters do.
*/
package arbor
