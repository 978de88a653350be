/*
Package ports defines the driven ports (interfaces) of the arbor editor core.

These interfaces decouple the core logic from external implementations, allowing
the editor to push redraw requests to any rendering surface and to swap the
node ID strategy.

# Key Interfaces

  - Renderer: Receives "please redraw" signals after every logically atomic operation.
  - IDGenerator: Produces node IDs; uniqueness is verified by the Tree Store.
*/
package ports
