package ws

import (
	"log"
	"sync"

	"github.com/orderstream/notifier/internal/metrics"
)

// Hub is the registry of live push connections. All registry mutation and
// enumeration goes through its lock; callers never touch the session set
// directly. The Hub carries opaque payload bytes and knows nothing about
// events or notification shapes.
type Hub struct {
	mu       sync.RWMutex
	sessions map[*Session]bool
	closed   bool
}

// NewHub allocates an empty Hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[*Session]bool)}
}

// Register adds a session to the registry. Registering on a shut-down hub
// closes the session's queue immediately so its write pump exits.
func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(s.send)
		return
	}
	if h.sessions[s] {
		return
	}
	h.sessions[s] = true
	metrics.SessionsActive.Set(float64(len(h.sessions)))
	log.Printf("ws: session %s registered (customer=%s remote=%s)", s.ID, s.CustomerID, s.RemoteAddr)
}

// Unregister removes a session and closes its outbound queue so no further
// sends are attempted. Safe to call for a session that was never registered
// or was already removed; the queue is closed exactly once.
func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s]; ok {
		delete(h.sessions, s)
		close(s.send)
		metrics.SessionsActive.Set(float64(len(h.sessions)))
		log.Printf("ws: session %s unregistered (customer=%s)", s.ID, s.CustomerID)
	}
}

// SendToCustomer enqueues payload onto every session of the given customer
// without blocking. A session whose queue is full is treated as dead: it is
// pruned from the registry after the sweep, and never holds up delivery to
// the customer's other sessions. Returns the number of sessions the payload
// was enqueued to; a customer with no sessions yields 0 and no error.
func (h *Hub) SendToCustomer(customerID string, payload []byte) int {
	var dead []*Session
	delivered := 0

	h.mu.RLock()
	for s := range h.sessions {
		if s.CustomerID != customerID {
			continue
		}
		select {
		case s.send <- payload:
			delivered++
		default:
			dead = append(dead, s)
		}
	}
	h.mu.RUnlock()

	h.prune(dead)
	metrics.NotificationsEnqueued.Add(float64(delivered))
	return delivered
}

// BroadcastToAll enqueues payload onto every registered session, with the
// same non-blocking, prune-on-full policy as SendToCustomer.
func (h *Hub) BroadcastToAll(payload []byte) int {
	var dead []*Session
	delivered := 0

	h.mu.RLock()
	for s := range h.sessions {
		select {
		case s.send <- payload:
			delivered++
		default:
			dead = append(dead, s)
		}
	}
	h.mu.RUnlock()

	h.prune(dead)
	metrics.NotificationsEnqueued.Add(float64(delivered))
	return delivered
}

// prune unregisters sessions whose queue was full during a sweep. Queues
// are only ever closed under the write lock and enqueues only happen under
// the read lock, so an enqueue can never race a close.
func (h *Hub) prune(dead []*Session) {
	for _, s := range dead {
		log.Printf("ws: session %s queue full, pruning (customer=%s)", s.ID, s.CustomerID)
		metrics.SessionsPruned.Inc()
		h.Unregister(s)
	}
}

// ActiveSessions returns the number of registered sessions.
func (h *Hub) ActiveSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Shutdown closes every session's queue and empties the registry. The hub
// accepts no registrations afterwards.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for s := range h.sessions {
		delete(h.sessions, s)
		close(s.send)
	}
	metrics.SessionsActive.Set(0)
	log.Println("ws: hub shut down")
}
