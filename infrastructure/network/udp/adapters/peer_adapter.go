package adapters

import (
	"net/netip"
	"transit/application"
	"transit/application/listeners"
	"transit/infrastructure/network/udp/queue"
)

// PeerAdapter is the connection-side view of one remote peer of a shared
// datagram socket: reads come from the peer's queue, filled by the listener's
// read loop, and writes go out through the shared socket.
type PeerAdapter struct {
	conn  listeners.UdpListener
	addr  netip.AddrPort
	queue queue.PeerQueue
}

func NewPeerAdapter(
	conn listeners.UdpListener,
	addrPort netip.AddrPort,
	queue queue.PeerQueue,
) application.ConnectionAdapter {
	return &PeerAdapter{
		conn:  conn,
		addr:  addrPort,
		queue: queue,
	}
}

// Enqueue hands an inbound datagram to the peer's queue; false means it was dropped.
func (p *PeerAdapter) Enqueue(pkt []byte) bool {
	return p.queue.Enqueue(pkt)
}

func (p *PeerAdapter) Read(b []byte) (int, error) {
	return p.queue.ReadInto(b)
}

func (p *PeerAdapter) Write(b []byte) (int, error) {
	return p.conn.WriteToUDPAddrPort(b, p.addr)
}

// Close releases the peer's queue only; the shared socket belongs to the listener.
func (p *PeerAdapter) Close() error {
	p.queue.Close()
	return nil
}

func (p *PeerAdapter) RemoteAddrPort() netip.AddrPort {
	return p.addr
}
