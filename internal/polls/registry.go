package polls

import (
	"sort"
	"sync"
)

// Registry holds the ids of messages that are live polls (thread-safe).
// It never performs I/O while holding its lock.
type Registry struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]struct{})}
}

// Add marks messageID as a live poll. Adding an id twice is a no-op.
func (r *Registry) Add(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[messageID] = struct{}{}
}

// Remove forgets messageID and reports whether it was tracked.
func (r *Registry) Remove(messageID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[messageID]; !ok {
		return false
	}
	delete(r.ids, messageID)
	return true
}

// Contains reports whether messageID is a live poll.
func (r *Registry) Contains(messageID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[messageID]
	return ok
}

// Len returns the number of live polls.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// IDs returns the tracked message ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
