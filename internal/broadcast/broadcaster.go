// Package broadcast fans newly observed hazard events out to live feed subscribers.
package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-saferoute/internal/metrics"
	"github.com/mr1hm/go-saferoute/internal/models"
)

// SubscriberBuffer is how many events a subscriber may lag behind before
// further events are dropped for it.
const SubscriberBuffer = 100

type Broadcaster struct {
	subscribers map[uint64]chan models.HazardEvent
	nextID      atomic.Uint64
	closed      bool
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan models.HazardEvent),
	}
}

// Subscribe registers a new subscriber. After Close the returned channel is
// already closed.
func (b *Broadcaster) Subscribe() (uint64, <-chan models.HazardEvent) {
	id := b.nextID.Add(1)
	ch := make(chan models.HazardEvent, SubscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return id, ch
	}
	b.subscribers[id] = ch
	metrics.FeedSubscribers.Set(float64(len(b.subscribers)))

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
		metrics.FeedSubscribers.Set(float64(len(b.subscribers)))
	}
	b.mu.Unlock()
}

// Broadcast delivers events to every subscriber and returns how many
// deliveries were dropped because a subscriber's buffer was full.
func (b *Broadcaster) Broadcast(events ...models.HazardEvent) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	dropped := 0
	for _, ch := range b.subscribers {
		for _, ev := range events {
			select {
			case ch <- ev:
			default:
				dropped++
			}
		}
	}
	return dropped
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels, ending their streams.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
	metrics.FeedSubscribers.Set(0)
}
