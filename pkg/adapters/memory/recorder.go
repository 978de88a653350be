package memory

import (
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
)

// Recorder implements ports.Renderer in memory by keeping every redraw request.
// Safe for concurrent use. It is meant for headless embedding and tests.
type Recorder struct {
	mu      sync.RWMutex
	redraws []domain.Redraw
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RequestRedraw records the request.
func (r *Recorder) RequestRedraw(rd domain.Redraw) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redraws = append(r.redraws, rd)
}

// Redraws returns a copy of the recorded requests, oldest first.
func (r *Recorder) Redraws() []domain.Redraw {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Redraw, len(r.redraws))
	copy(out, r.redraws)
	return out
}

// Kinds returns the recorded redraw kinds, oldest first.
func (r *Recorder) Kinds() []domain.RedrawKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.RedrawKind, len(r.redraws))
	for i, rd := range r.redraws {
		kinds[i] = rd.Kind
	}
	return kinds
}

// Count returns how many requests of the given kind were recorded.
func (r *Recorder) Count(kind domain.RedrawKind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rd := range r.redraws {
		if rd.Kind == kind {
			n++
		}
	}
	return n
}

// Clear drops the recorded requests.
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redraws = nil
}
