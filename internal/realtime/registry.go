package realtime

import (
	"sort"
	"sync"
	"time"

	"hostelhub/internal/domain"
)

// Registry tracks each live connection and the identity it represents.
// A connection appears here only after an explicit register event; it is
// removed on disconnect.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]*domain.Peer // keyed by connection id
}

func NewRegistry() *Registry {
	return &Registry{
		peers: make(map[string]*domain.Peer),
	}
}

// Register binds an identity to a connection. Calling it again for the
// same connection re-binds the identity.
func (r *Registry) Register(connID, identity string) (domain.Peer, error) {
	if identity == "" {
		return domain.Peer{}, ErrIdentityMissing
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.peers[connID]; ok {
		p.Username = identity
		return *p, nil
	}

	p := &domain.Peer{
		ConnID:       connID,
		Username:     identity,
		RegisteredAt: time.Now().UTC(),
	}
	r.peers[connID] = p
	return *p, nil
}

// Remove drops a connection from the registry. It reports whether the
// connection was registered, returning its last known state.
func (r *Registry) Remove(connID string) (domain.Peer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.peers[connID]
	if !ok {
		return domain.Peer{}, false
	}
	delete(r.peers, connID)
	return *p, true
}

// Get returns the peer bound to a connection id.
func (r *Registry) Get(connID string) (domain.Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.peers[connID]
	if !ok {
		return domain.Peer{}, false
	}
	return *p, true
}

// Identity returns the identity bound to a connection id, if any.
func (r *Registry) Identity(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.peers[connID]
	if !ok {
		return "", false
	}
	return p.Username, true
}

// IsRegistered reports whether the connection has a bound identity.
func (r *Registry) IsRegistered(connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.peers[connID]
	return ok
}

// List returns a snapshot of all registered peers ordered by registration
// time. There is no liveness promise beyond the read instant.
func (r *Registry) List() []domain.Peer {
	r.mu.RLock()
	peers := make([]domain.Peer, 0, len(r.peers))
	for _, p := range r.peers {
		peers = append(peers, *p)
	}
	r.mu.RUnlock()

	sort.Slice(peers, func(i, j int) bool {
		if peers[i].RegisteredAt.Equal(peers[j].RegisteredAt) {
			return peers[i].ConnID < peers[j].ConnID
		}
		return peers[i].RegisteredAt.Before(peers[j].RegisteredAt)
	})
	return peers
}
