package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// Broadcaster is the publishing side of the bus, consumed by services that
// need to push domain events to live connections.
type Broadcaster interface {
	// Broadcast delivers an event to every live connection.
	Broadcast(event string, payload any)
	// SendTo delivers an event to one connection. Delivery to a connection
	// that is no longer live is silently dropped.
	SendTo(connID string, event string, payload any)
}

// Hub tracks live connections and multiplexes events to them. Delivery is
// best-effort: per-connection order follows publish order, there is no
// cross-connection ordering and no replay for late joiners.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Conn),
	}
}

// attach makes a connection eligible to receive events.
func (h *Hub) attach(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.ID] = c
}

// detach removes a connection and terminates its write pump. Safe to call
// for an id that is already gone.
func (h *Hub) detach(id string) {
	h.mu.Lock()
	c, ok := h.conns[id]
	if ok {
		delete(h.conns, id)
	}
	h.mu.Unlock()

	if ok {
		c.close()
	}
}

// Broadcast sends an event to every live connection.
func (h *Hub) Broadcast(event string, payload any) {
	msg, err := encodeEvent(event, payload)
	if err != nil {
		log.Printf("ERROR: failed to encode %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if !c.enqueue(msg) {
			log.Printf("WARN: connection %s is not draining, detaching", c.ID)
			h.detach(c.ID)
		}
	}
}

// SendTo sends an event to a single connection id.
func (h *Hub) SendTo(connID string, event string, payload any) {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		// Target already disconnected; drop silently.
		return
	}

	msg, err := encodeEvent(event, payload)
	if err != nil {
		log.Printf("ERROR: failed to encode %s event: %v", event, err)
		return
	}

	if !c.enqueue(msg) {
		log.Printf("WARN: connection %s is not draining, detaching", c.ID)
		h.detach(c.ID)
	}
}

// Len reports the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func encodeEvent(event string, payload any) ([]byte, error) {
	env := struct {
		Event string `json:"event"`
		Data  any    `json:"data,omitempty"`
	}{Event: event, Data: payload}
	return json.Marshal(env)
}
