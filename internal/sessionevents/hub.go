// Package sessionevents broadcasts sign-out events to a visitor's other
// tabs. Without it, a tab that signs out leaves siblings rendering
// authenticated shells until their next API call 401s.
package sessionevents

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is the payload pushed to subscribed tabs.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// EventSignedOut tells a tab its session ended (logout or forced 401
// invalidation); the tab should navigate to sign-in.
const EventSignedOut = "signed_out"

// Conn is the minimal interface a tab connection must satisfy.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub is a registry of tab connections keyed by token fingerprint. One
// visitor with three tabs holds three connections under one fingerprint.
type Hub struct {
	mu   sync.RWMutex
	tabs map[string]map[string]Conn
}

func NewHub() *Hub {
	return &Hub{tabs: make(map[string]map[string]Conn)}
}

// Register adds a tab connection and returns its ID for Unregister.
func (h *Hub) Register(fingerprint string, conn Conn) string {
	id := uuid.NewString()
	h.mu.Lock()
	if h.tabs[fingerprint] == nil {
		h.tabs[fingerprint] = make(map[string]Conn)
	}
	h.tabs[fingerprint][id] = conn
	h.mu.Unlock()
	return id
}

// Unregister removes a tab connection.
func (h *Hub) Unregister(fingerprint, id string) {
	h.mu.Lock()
	if conns, ok := h.tabs[fingerprint]; ok {
		delete(conns, id)
		if len(conns) == 0 {
			delete(h.tabs, fingerprint)
		}
	}
	h.mu.Unlock()
}

// SignedOut notifies every tab under the fingerprint and closes their
// connections. Implements session.Broadcaster.
func (h *Hub) SignedOut(fingerprint string) {
	if fingerprint == "" {
		return
	}

	h.mu.Lock()
	conns := h.tabs[fingerprint]
	delete(h.tabs, fingerprint)
	h.mu.Unlock()

	event := Event{Type: EventSignedOut, Timestamp: time.Now()}
	for _, conn := range conns {
		// Best-effort send; a dead tab just misses the event.
		go func(c Conn) {
			if err := c.WriteJSON(event); err != nil {
				log.Printf("sessionevents: write failed: %v", err)
			}
			c.Close()
		}(conn)
	}
}

// Tabs reports how many tabs are subscribed under a fingerprint.
func (h *Hub) Tabs(fingerprint string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tabs[fingerprint])
}
