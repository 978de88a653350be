package ports

import "github.com/aretw0/arbor/pkg/domain"

// Renderer is the external drawing/layout collaborator.
// It is a read-only consumer: on RequestRedraw it pulls a fresh snapshot
// from the editor and recomputes what it needs.
type Renderer interface {
	RequestRedraw(r domain.Redraw)
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(domain.Redraw)

// RequestRedraw calls f(r).
func (f RendererFunc) RequestRedraw(r domain.Redraw) {
	f(r)
}
