package listeners

import "net"

// TcpListener accepts handshake-granular connections (TCP and upgraded WebSocket).
type TcpListener interface {
	Accept() (net.Conn, error)
	Addr() net.Addr
	Close() error
}
