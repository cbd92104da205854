package service

import "sync"

// garageLocks serialises read-modify-write cycles on one garage's layout
// within this process.
type garageLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newGarageLocks() *garageLocks {
	return &garageLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the garage's mutex and returns its unlock function.
func (g *garageLocks) lock(garageID string) func() {
	g.mu.Lock()
	m, ok := g.locks[garageID]
	if !ok {
		m = &sync.Mutex{}
		g.locks[garageID] = m
	}
	g.mu.Unlock()
	m.Lock()
	return m.Unlock
}
