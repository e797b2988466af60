package realtime

import (
	"log"
	"sync"
)

// Registry tracks every live channel per user and delivers payloads to them.
// It is constructed once at startup and injected wherever push delivery is
// needed; there is no package-level instance.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register adds a client to its user's channel set. The websocket handshake
// has already completed by the time a Client exists, so registration itself
// cannot fail.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		r.clients[c.UserID] = set
	}
	set[c] = struct{}{}
}

// Deregister removes a client from its user's set and closes it. Removing a
// client that was never registered, or was already removed by a concurrent
// deregistration, is a no-op. Empty user entries are deleted so the table
// does not grow with connection churn.
func (r *Registry) Deregister(c *Client) {
	r.mu.Lock()
	set, ok := r.clients[c.UserID]
	if ok {
		delete(set, c)
		if len(set) == 0 {
			delete(r.clients, c.UserID)
		}
	}
	r.mu.Unlock()

	c.Close()
}

// SendToUser writes the payload to every channel currently open for the
// user. A user with no channels is a normal no-op: delivery is best-effort.
// A failure on one channel never blocks delivery to the rest; the failing
// channel is deregistered on the spot. The table lock is released before any
// channel is touched so a stalled connection cannot block the registry.
func (r *Registry) SendToUser(userID string, payload []byte) {
	r.mu.RLock()
	targets := make([]*Client, 0, len(r.clients[userID]))
	for c := range r.clients[userID] {
		targets = append(targets, c)
	}
	r.mu.RUnlock()

	for _, c := range targets {
		if err := c.enqueue(payload); err != nil {
			log.Printf("dropping channel for user %s: %v", userID, err)
			r.Deregister(c)
		}
	}
}

// Broadcast writes the payload to every channel of every user with the same
// per-channel fault isolation as SendToUser.
func (r *Registry) Broadcast(payload []byte) {
	r.mu.RLock()
	targets := make([]*Client, 0)
	for _, set := range r.clients {
		for c := range set {
			targets = append(targets, c)
		}
	}
	r.mu.RUnlock()

	for _, c := range targets {
		if err := c.enqueue(payload); err != nil {
			log.Printf("dropping channel for user %s: %v", c.UserID, err)
			r.Deregister(c)
		}
	}
}

// CountForUser reports how many channels the user currently has open.
func (r *Registry) CountForUser(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[userID])
}
