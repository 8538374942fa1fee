package server

import (
	"errors"
	"net"
	"sync"
	"transit/application/listeners"
)

// Server is the part of HttpServer the listener drives.
type Server interface {
	Serve() error
	Shutdown() error
	Done() <-chan struct{}
	Err() error
}

var _ listeners.TcpListener = (*Listener)(nil)

// Listener gives an upgrade server net.Listener semantics: Accept returns one
// message adapter per completed WebSocket handshake.
type Listener struct {
	server          Server
	addr            net.Addr
	connectionQueue chan net.Conn
	startOnce       sync.Once
	closeOnce       sync.Once
	done            chan struct{}
}

func NewListener(
	server Server,
	addr net.Addr,
	queue chan net.Conn,
) (*Listener, error) {
	if server == nil {
		return nil, errors.New("server must not be nil")
	}
	if queue == nil {
		return nil, errors.New("queue must not be nil")
	}
	return &Listener{
		server:          server,
		addr:            addr,
		connectionQueue: queue,
		done:            make(chan struct{}),
	}, nil
}

// Start runs the server in the background; only the first call has an effect.
func (l *Listener) Start() {
	l.startOnce.Do(func() {
		go func() {
			_ = l.server.Serve()
		}()
	})
}

func (l *Listener) Accept() (net.Conn, error) {
	select {
	case <-l.done:
		return nil, net.ErrClosed
	default:
	}
	select {
	case <-l.done:
		return nil, net.ErrClosed
	case conn := <-l.connectionQueue:
		return conn, nil
	case <-l.server.Done():
		if err := l.server.Err(); err != nil {
			return nil, err
		}
		return nil, net.ErrClosed
	}
}

func (l *Listener) Addr() net.Addr {
	return l.addr
}

func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.server.Shutdown()
		for {
			select {
			case conn := <-l.connectionQueue:
				_ = conn.Close()
			default:
				return
			}
		}
	})
	return err
}
