package web

import (
	"sync"

	"gnssview/internal/stream"
)

// Event is one dashboard update, published once per position epoch.
type Event struct {
	NowUTC string          `json:"now_utc"`
	Reader stream.Snapshot `json:"reader"`
	Plots  map[string]any  `json:"plots"`
}

// Broadcaster fans out events to SSE subscribers. It keeps the most
// recent event so new subscribers get an immediate sample. Slow
// subscribers miss events instead of blocking the publisher.
type Broadcaster struct {
	mu   sync.Mutex
	set  map[chan Event]struct{}
	last *Event
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{set: make(map[chan Event]struct{})}
}

// Subscribe registers a listener. The returned cancel func drops the
// subscription and closes the channel; calling it twice is safe.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if b == nil {
		return nil, func() {}
	}
	if buffer <= 0 {
		buffer = 2
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	b.set[ch] = struct{}{}
	if b.last != nil {
		// ch is fresh and buffered, so this cannot block.
		ch <- *b.last
	}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.set, ch)
			close(ch)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every subscriber with buffer room. Sends
// happen under the lock so cancel cannot close a channel mid-delivery.
func (b *Broadcaster) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = &ev
	for ch := range b.set {
		select {
		case ch <- ev:
		default:
		}
	}
}
