package socket

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"transit/domain/network/endpoint"
	"transit/domain/network/transport"
	"transit/infrastructure/network/sockopt"
	udpadapters "transit/infrastructure/network/udp/adapters"
	"transit/infrastructure/network/udp/queue"
	"transit/infrastructure/peers"
	"transit/infrastructure/telemetry/metrics"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// batchReader is satisfied by both ipv4.PacketConn and ipv6.PacketConn:
// their Message types alias the same socket.Message.
type batchReader interface {
	ReadBatch(ms []ipv4.Message, flags int) (int, error)
}

func newBatchReader(conn *net.UDPConn) batchReader {
	if la, ok := conn.LocalAddr().(*net.UDPAddr); ok && la.IP.To4() != nil {
		return ipv4.NewPacketConn(conn)
	}
	return ipv6.NewPacketConn(conn)
}

// readLoop demultiplexes the shared socket into one connection per remote peer.
func (l *Listener) readLoop(ctx context.Context) error {
	s := l.opts.settings
	// One spare byte tells an oversize datagram apart from one that fits exactly.
	msgs := make([]ipv4.Message, s.ReadBatchSize)
	for i := range msgs {
		msgs[i].Buffers = [][]byte{make([]byte, s.MaxDatagramSize+1)}
	}
	for {
		n, err := l.batch.ReadBatch(msgs, 0)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			if sockopt.IsConnRefused(err) {
				continue
			}
			l.opts.logger.Printf("UDP listener on port %d: read: %v", l.port, err)
			return err
		}
		for i := 0; i < n; i++ {
			m := &msgs[i]
			addr, ok := m.Addr.(*net.UDPAddr)
			if !ok {
				continue
			}
			l.demux(addr.AddrPort(), m.Buffers[0][:m.N])
		}
	}
}

func (l *Listener) demux(from netip.AddrPort, pkt []byte) {
	switch {
	case len(pkt) == 0:
		l.dropped(from, metrics.DropEmpty, "empty datagram")
		return
	case len(pkt) > l.opts.settings.MaxDatagramSize:
		l.dropped(from, metrics.DropOversize, "datagram exceeds maximum size")
		return
	}

	conn, created, err := l.peers.GetOrCreate(from, func() *Connection {
		return l.newPeer(from)
	})
	if err != nil {
		if errors.Is(err, peers.ErrLimitReached) {
			l.dropped(from, metrics.DropPeerLimit, "peer limit reached")
		}
		return
	}
	if !conn.adapter.(*udpadapters.PeerAdapter).Enqueue(pkt) {
		l.dropped(from, metrics.DropQueueFull, "peer queue full")
	}
	if created {
		l.opts.logger.Printf("UDP listener on port %d: new peer %s as %s", l.port, from, conn.ID())
		l.notify(conn)
	}
}

func (l *Listener) newPeer(from netip.AddrPort) *Connection {
	q := queue.NewPacketQueue(l.opts.settings.PeerQueueCapacity, l.opts.settings.MaxDatagramSize)
	adapter := udpadapters.NewPeerAdapter(l.udp, from, q)
	c := newConnection(transport.Datagram, endpoint.FromAddrPort(from), adapter, l.opts, l.opts.newQueue())
	c.onClose = func(closed *Connection) {
		l.peers.Delete(from, func(registered *Connection) bool { return registered == closed })
	}
	return c
}

func (l *Listener) dropped(from netip.AddrPort, reason, what string) {
	l.opts.logger.Printf("UDP listener on port %d: dropped datagram from %s: %s", l.port, from, what)
	l.opts.metrics.Dropped(transport.Datagram, reason)
}
