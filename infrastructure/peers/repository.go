// Package peers indexes the live connections of a listener by remote address.
package peers

import (
	"errors"
	"net/netip"
)

var (
	ErrNotFound     = errors.New("peer not found")
	ErrLimitReached = errors.New("peer limit reached")
)

type Repository[T any] interface {
	Add(addrPort netip.AddrPort, peer T)
	// Delete removes the entry for addrPort when match reports true for it.
	Delete(addrPort netip.AddrPort, match func(T) bool)
	Get(addrPort netip.AddrPort) (T, error)
	Len() int
	// All returns every peer without removing it.
	All() []T
	// Drain removes and returns every peer.
	Drain() []T
}

type DefaultRepository[T any] struct {
	byAddrPort map[netip.AddrPort]T
}

func NewDefaultRepository[T any]() Repository[T] {
	return &DefaultRepository[T]{
		byAddrPort: make(map[netip.AddrPort]T),
	}
}

func (r *DefaultRepository[T]) Add(addrPort netip.AddrPort, peer T) {
	r.byAddrPort[canonicalAP(addrPort)] = peer
}

func (r *DefaultRepository[T]) Delete(addrPort netip.AddrPort, match func(T) bool) {
	key := canonicalAP(addrPort)
	if peer, ok := r.byAddrPort[key]; ok && (match == nil || match(peer)) {
		delete(r.byAddrPort, key)
	}
}

func (r *DefaultRepository[T]) Get(addrPort netip.AddrPort) (T, error) {
	peer, found := r.byAddrPort[canonicalAP(addrPort)]
	if !found {
		var zero T
		return zero, ErrNotFound
	}
	return peer, nil
}

func (r *DefaultRepository[T]) Len() int {
	return len(r.byAddrPort)
}

func (r *DefaultRepository[T]) All() []T {
	out := make([]T, 0, len(r.byAddrPort))
	for _, peer := range r.byAddrPort {
		out = append(out, peer)
	}
	return out
}

func (r *DefaultRepository[T]) Drain() []T {
	out := make([]T, 0, len(r.byAddrPort))
	for key, peer := range r.byAddrPort {
		out = append(out, peer)
		delete(r.byAddrPort, key)
	}
	return out
}

// canonicalAP unmaps IPv4-mapped IPv6 so a dual-stack socket sees one peer per IPv4 client.
func canonicalAP(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}
