/*
Package domain contains the core domain models of the arbor tree editor.

It defines the structural entities (Nodes and Tree snapshots), the interaction
vocabulary (Events, selection policies, click modes) and the error kinds shared
by every layer. This package is kept pure and free of external dependencies
like I/O or rendering, following Hexagonal Architecture principles.

# Key Entities

  - Node: A read-only view of a single tree element (ID, Label, ordered child IDs).
  - Tree: A nested, deep-copied snapshot of the whole structure, used for layout and export.
  - Event: A raw interaction event emitted by the Renderer (enter, leave, click, selectionChange).
  - Redraw: A parameterless "please redraw" signal pushed back to the Renderer.
*/
package domain
