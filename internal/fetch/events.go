package fetch

import (
	"sync"

	"github.com/nao1215/sitediff/internal/model"
)

// Outcome describes how one (side, path) fetch completed.
type Outcome string

const (
	// OutcomeFetched means the content came from a live request.
	OutcomeFetched Outcome = "fetched"

	// OutcomeCached means the content came from the persistent cache.
	OutcomeCached Outcome = "cached"

	// OutcomeFailed means the fetch produced an error.
	OutcomeFailed Outcome = "failed"
)

// Event is one progress notification, published once per completed
// fetch. Events are informational only: consumers cannot abort or steer
// the run through them.
type Event struct {
	Path    string
	Side    model.Side
	Outcome Outcome

	// Err holds the failure message for OutcomeFailed.
	Err string
}

// Publisher fans fetch events out to an external consumer without ever
// blocking the pipeline. The channel is bounded; when the consumer falls
// behind, the oldest buffered event is dropped to make room.
type Publisher struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// DefaultEventBuffer is the event channel capacity used by NewPublisher
// when callers pass a non-positive size.
const DefaultEventBuffer = 64

// NewPublisher creates a Publisher with the given buffer capacity.
func NewPublisher(buffer int) *Publisher {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	return &Publisher{ch: make(chan Event, buffer)}
}

// Publish delivers an event without blocking. When the buffer is full
// the oldest event is discarded; a slow or absent consumer never stalls
// a fetch. Publishing after Close is a no-op.
func (p *Publisher) Publish(e Event) {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	for {
		select {
		case p.ch <- e:
			return
		default:
		}
		// Buffer full: drop the oldest and retry.
		select {
		case <-p.ch:
		default:
		}
	}
}

// Events returns the channel consumers receive from.
func (p *Publisher) Events() <-chan Event {
	return p.ch
}

// Close closes the event channel. Pending buffered events remain
// readable.
func (p *Publisher) Close() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
}
