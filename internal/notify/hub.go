package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// EventType names a user-facing lifecycle event.
type EventType string

const (
	EventRowAdded                EventType = "row_added"
	EventRowsCleared             EventType = "rows_cleared"
	EventClassificationStarted   EventType = "classification_started"
	EventClassificationCompleted EventType = "classification_completed"
	EventClassificationFailed    EventType = "classification_failed"
)

// Event is an ephemeral status notification. Nothing is retained; a
// subscriber that was not listening when an event fired never sees it.
type Event struct {
	Type  EventType `json:"type"`
	RowID string    `json:"row_id,omitempty"`
	Text  string    `json:"text,omitempty"`
}

const subscriberBuffer = 16

// Hub fans lifecycle events out to any number of subscribers. It is purely
// a side-effecting sink driven by the other components; it holds no state
// beyond the live subscriber set.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new listener. The returned channel is closed when
// ctx is done.
func (h *Hub) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()

		h.mu.Lock()
		delete(h.subscribers, ch)
		h.mu.Unlock()

		close(ch)
	}()

	return ch
}

// Publish delivers the event to every live subscriber. Subscribers that
// cannot keep up have the event dropped rather than blocking the publisher.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			log.Warn().Str("event", string(event.Type)).Msg("Dropping notification for slow subscriber")
		}
	}
}

// SubscriberCount reports the number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers)
}
