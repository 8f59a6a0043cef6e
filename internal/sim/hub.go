package sim

import (
	"encoding/json"
	"fmt"
	"sync"
)

// clientBuffer is the per-subscriber event queue depth. A slow subscriber
// drops events rather than stalling the publisher.
const clientBuffer = 200

// Hub fans out SSE frames to all connected push-channel subscribers.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

// Subscribe registers a new subscriber and returns its frame channel.
func (h *Hub) Subscribe() chan string {
	ch := make(chan string, clientBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber. The channel is not closed; the
// subscriber simply stops receiving.
func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// Emit broadcasts one named event with a JSON payload to every subscriber.
// Subscribers with full buffers miss the event.
func (h *Hub) Emit(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	frame := fmt.Sprintf("event: %s\ndata: %s\n\n", event, data)

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- frame:
		default:
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
