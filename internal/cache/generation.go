package cache

import "sync"

// Generations hands out a monotonically increasing token per key.
// Callers take a token before a slow fetch and check it again before
// storing the result; a newer token for the same key means a later
// request superseded this one and the stale result must be dropped.
type Generations struct {
	mu  sync.Mutex
	seq map[string]uint64
}

func NewGenerations() *Generations {
	return &Generations{seq: make(map[string]uint64)}
}

// Next advances the generation for key and returns the new token.
func (g *Generations) Next(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq[key]++
	return g.seq[key]
}

// Current reports whether token is still the newest one issued for key.
func (g *Generations) Current(key string, token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq[key] == token
}
