package peers

import (
	"net/netip"
	"sync"
)

type ConcurrentRepository[T any] struct {
	mu       sync.RWMutex
	repo     Repository[T]
	maxPeers int
}

// NewConcurrentRepository guards repo with a lock; maxPeers <= 0 means unlimited.
func NewConcurrentRepository[T any](repo Repository[T], maxPeers int) *ConcurrentRepository[T] {
	return &ConcurrentRepository[T]{
		repo:     repo,
		maxPeers: maxPeers,
	}
}

// GetOrCreate looks addrPort up and, when unseen, registers the peer built by
// create. Lookup, limit check and insert form one critical section, so two
// packets from a new peer can never create two entries.
func (c *ConcurrentRepository[T]) GetOrCreate(addrPort netip.AddrPort, create func() T) (peer T, created bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, getErr := c.repo.Get(addrPort); getErr == nil {
		return existing, false, nil
	}
	if c.maxPeers > 0 && c.repo.Len() >= c.maxPeers {
		var zero T
		return zero, false, ErrLimitReached
	}
	peer = create()
	c.repo.Add(addrPort, peer)
	return peer, true, nil
}

func (c *ConcurrentRepository[T]) Get(addrPort netip.AddrPort) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repo.Get(addrPort)
}

func (c *ConcurrentRepository[T]) Delete(addrPort netip.AddrPort, match func(T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repo.Delete(addrPort, match)
}

func (c *ConcurrentRepository[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repo.Len()
}

func (c *ConcurrentRepository[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.repo.All()
}

func (c *ConcurrentRepository[T]) Drain() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repo.Drain()
}
