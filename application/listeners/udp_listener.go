package listeners

import (
	"net"
	"net/netip"
)

// UdpListener is the shared server-side datagram socket.
type UdpListener interface {
	Close() error
	LocalAddr() net.Addr
	SetReadBuffer(size int) error
	SetWriteBuffer(size int) error
	WriteToUDPAddrPort(data []byte, addr netip.AddrPort) (int, error)
}
