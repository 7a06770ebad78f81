package app

import (
	"context"
	"sync"
)

// Registry keeps one client per namespace, created on first use.
type Registry struct {
	deps Deps

	mu      sync.RWMutex
	clients map[string]*Client
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:    deps,
		clients: make(map[string]*Client),
	}
}

// Get returns the client of namespace, restoring it from the snapshot if needed.
// created reports whether the client was new. The snapshot is read without
// holding the registry lock; if two callers race, the first insert wins.
func (r *Registry) Get(ctx context.Context, namespace string) (c *Client, created bool) {
	r.mu.RLock()
	c, ok := r.clients[namespace]
	r.mu.RUnlock()
	if ok {
		return c, false
	}

	fresh := NewClient(ctx, namespace, r.deps)

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.clients[namespace]; ok {
		return c, false
	}
	r.clients[namespace] = fresh
	return fresh, true
}

// Clients returns the loaded clients.
func (r *Registry) Clients() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	return out
}

// Delete drops the in-memory client. Its snapshot is kept.
func (r *Registry) Delete(namespace string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, namespace)
}
