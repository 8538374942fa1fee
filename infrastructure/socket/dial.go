package socket

import (
	"context"
	"fmt"
	"net"
	"transit/application"
	"transit/domain/network/endpoint"
	"transit/domain/network/transport"
	"transit/infrastructure/network/sockopt"
	tcpadapters "transit/infrastructure/network/tcp/adapters"
	udpadapters "transit/infrastructure/network/udp/adapters"
	wsadapter "transit/infrastructure/network/ws/adapter"

	"github.com/coder/websocket"
)

// Dial opens a Ready connection to remote. Stream and Message complete their
// handshake before Dial returns; Datagram only fixes the peer address.
// Without a deadline on ctx, Settings.DialTimeoutMs bounds the attempt.
func Dial(ctx context.Context, remote endpoint.Endpoint, t transport.Transport, opts ...Option) (*Connection, error) {
	o := newOptions(opts)
	if err := o.settings.Validate(); err != nil {
		return nil, err
	}
	if _, ok := ctx.Deadline(); !ok && o.settings.DialTimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.settings.DialTimeoutMs.Duration())
		defer cancel()
	}

	var (
		adapter application.ConnectionAdapter
		err     error
	)
	switch t {
	case transport.Stream:
		adapter, err = dialStream(ctx, remote)
	case transport.Datagram:
		adapter, err = dialDatagram(ctx, remote, o)
	case transport.Message:
		adapter, err = dialMessage(ctx, remote, o)
	default:
		return nil, fmt.Errorf("%w: %v", transport.ErrInvalidTransport, t)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %s %s: %w", t, remote, err)
	}
	c := newConnection(t, remote, adapter, o, o.queue)
	o.logger.Printf("%s connection %s dialed to %s", t, c.ID(), remote)
	return c, nil
}

func dialStream(ctx context.Context, remote endpoint.Endpoint) (application.ConnectionAdapter, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", remote.String())
	if err != nil {
		return nil, err
	}
	return tcpadapters.NewStreamAdapter(conn), nil
}

func dialDatagram(ctx context.Context, remote endpoint.Endpoint, o *options) (application.ConnectionAdapter, error) {
	buffers := sockopt.Buffers{Receive: o.settings.SocketReceiveBuffer, Send: o.settings.SocketSendBuffer}
	conn, err := buffers.Dialer().DialContext(ctx, "udp", remote.String())
	if err != nil {
		return nil, err
	}
	return udpadapters.NewDialedAdapter(conn.(*net.UDPConn), o.settings.MaxDatagramSize), nil
}

func dialMessage(ctx context.Context, remote endpoint.Endpoint, o *options) (application.ConnectionAdapter, error) {
	url := "ws://" + remote.String() + o.settings.WebSocketPath
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(int64(o.settings.MaxMessageSize))

	var raddr net.Addr
	if ap, ok := remote.AddrPort(); ok {
		raddr = net.TCPAddrFromAddrPort(ap)
	}
	return wsadapter.NewAdapter(conn, nil, raddr), nil
}

// connectionAdapter wraps an accepted conn for t. Message conns already
// arrive as one-message-per-Read adapters.
func connectionAdapter(t transport.Transport, conn net.Conn) application.ConnectionAdapter {
	if t == transport.Stream {
		return tcpadapters.NewStreamAdapter(conn)
	}
	return conn
}
