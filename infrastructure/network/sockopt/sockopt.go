// Package sockopt applies socket buffer sizes at bind/dial time and classifies
// the OS errors the socket layer reacts to.
package sockopt

import (
	"context"
	"net"
	"syscall"
)

// Buffers holds SO_RCVBUF/SO_SNDBUF sizes in bytes; zero leaves the OS default.
type Buffers struct {
	Receive int
	Send    int
}

// Control returns a net.ListenConfig/net.Dialer control function applying b
// to the raw socket before bind or connect.
func (b Buffers) Control() func(network, address string, c syscall.RawConn) error {
	return func(_, _ string, c syscall.RawConn) error {
		if b.Receive <= 0 && b.Send <= 0 {
			return nil
		}
		var opErr error
		err := c.Control(func(fd uintptr) {
			opErr = setBuffers(fd, b.Receive, b.Send)
		})
		if err != nil {
			return err
		}
		return opErr
	}
}

func (b Buffers) ListenConfig() *net.ListenConfig {
	return &net.ListenConfig{Control: b.Control()}
}

func (b Buffers) Dialer() *net.Dialer {
	return &net.Dialer{Control: b.Control()}
}

// ListenPacket binds a UDP socket with the configured buffers.
func (b Buffers) ListenPacket(ctx context.Context, address string) (*net.UDPConn, error) {
	pc, err := b.ListenConfig().ListenPacket(ctx, "udp", address)
	if err != nil {
		return nil, err
	}
	return pc.(*net.UDPConn), nil
}
