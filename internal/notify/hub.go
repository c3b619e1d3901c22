package notify

import (
	"sync"
)

// ─── Events (Gateway → Browser) ─────────────────────────────────────

type Event string

const (
	// EventSessionInvalidated means the upstream rejected the session's
	// credential; every open tab should return to the login screen.
	EventSessionInvalidated Event = "session_invalidated"
	// EventLoggedOut means the user logged out deliberately in some tab.
	EventLoggedOut Event = "logged_out"
)

// SessionEvent is pushed to browser tabs subscribed to a session.
type SessionEvent struct {
	Event     Event  `json:"event"`
	SessionID string `json:"-"`
	Redirect  string `json:"redirect"`
}

// Hub fans session lifecycle events out to WebSocket subscribers. The auth
// service is the only publisher; one subscriber per open tab.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan SessionEvent]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan SessionEvent]struct{})}
}

// Subscribe registers a listener for one session's events. The returned
// cancel func must be called when the connection closes.
func (h *Hub) Subscribe(sessionID string) (<-chan SessionEvent, func()) {
	ch := make(chan SessionEvent, 4)

	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[chan SessionEvent]struct{})
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[sessionID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, sessionID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber of its session. Slow
// subscribers are skipped rather than blocking the publisher.
func (h *Hub) Publish(evt SessionEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[evt.SessionID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// SubscriberCount reports how many listeners a session currently has.
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[sessionID])
}
