package http

import (
	"context"
	"log/slog"
	"reflect"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/goccy/go-json"
)

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty subscriber set.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new client. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers returns the number of connected clients.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends msg to every subscriber, dropping it for clients whose buffer is full.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sm.logger.Debug("StreamManager: Broadcasting", "subscribers", len(sm.subscribers), "payload_size", len(msg))

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// Message is one SSE payload: the redraw kind plus what changed since the previous message.
type Message struct {
	Kind domain.RedrawKind `json:"kind"`
	Diff *domain.TreeDiff  `json:"diff"`
}

// Snapshotter reads the tree and interaction state consistently.
type Snapshotter interface {
	Snapshot() (domain.Tree, domain.InteractionEvent)
}

// Publisher turns redraw requests into diff broadcasts.
// It implements ports.Renderer. RequestRedraw only signals, since it is called while
// the editor lock is held; Run reads the editor from its own goroutine.
// The message kind is derived from the diff itself, so a change landing between a
// request and its publish is never sent with the wrong kind.
type Publisher struct {
	source  Snapshotter
	streams *StreamManager
	logger  *slog.Logger
	pending chan struct{}

	prevTree        *domain.Tree
	prevInteraction domain.InteractionEvent
}

// NewPublisher creates a publisher reading from source and broadcasting on streams.
func NewPublisher(source Snapshotter, streams *StreamManager, logger *slog.Logger) *Publisher {
	p := &Publisher{
		source:  source,
		streams: streams,
		logger:  logger,
		pending: make(chan struct{}, 1),
	}
	return p
}

// Prime records the current state as the baseline for the next diff.
func (p *Publisher) Prime() {
	t, in := p.source.Snapshot()
	p.prevTree, p.prevInteraction = &t, in
}

// RequestRedraw coalesces redraw requests until the next publish.
func (p *Publisher) RequestRedraw(domain.Redraw) {
	select {
	case p.pending <- struct{}{}:
	default:
	}
}

// Run publishes pending redraws until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.pending:
			p.Publish()
		}
	}
}

// Publish computes the diff against the last published state and broadcasts it.
// It returns false when nothing changed.
func (p *Publisher) Publish() bool {
	t, in := p.source.Snapshot()
	diff := domain.DiffTrees(p.prevTree, &t)
	if !reflect.DeepEqual(in, p.prevInteraction) {
		if diff == nil {
			diff = &domain.TreeDiff{}
		}
		interaction := in
		diff.Interaction = &interaction
	}
	p.prevTree, p.prevInteraction = &t, in

	if diff == nil {
		return false
	}

	msg := Message{Kind: domain.RedrawPaint, Diff: diff}
	if diff.Structural() {
		msg.Kind = domain.RedrawLayout
	}
	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error("Publisher: encode failed", "error", err)
		return false
	}
	p.streams.Broadcast(string(data))
	return true
}
