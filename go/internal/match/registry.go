package match

import "sync"

// registry is the process-wide set of live matches.
type registry struct {
	mu      sync.RWMutex
	matches map[string]*Match
}

func newRegistry() *registry {
	return &registry{matches: make(map[string]*Match)}
}

func (r *registry) add(m *Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[m.ID] = m
}

func (r *registry) get(id string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	return m, ok
}

// remove deletes the match and reports whether it was present.
func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return false
	}
	delete(r.matches, id)
	return true
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}

func (r *registry) all() []*Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Match, 0, len(r.matches))
	for _, m := range r.matches {
		out = append(out, m)
	}
	return out
}
