package adapter

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"
	"transit/application"
	"transit/infrastructure/network/ws/contracts"

	"github.com/coder/websocket"
)

var (
	_ net.Conn                      = &Adapter{}
	_ application.ConnectionAdapter = &Adapter{}
	_ contracts.Conn                = &websocket.Conn{}
)

var errDeadlinesUnsupported = errors.New("message adapter does not support deadlines")

// Adapter exposes a websocket connection as a packet-granular net.Conn:
// every Read returns exactly one binary message and every Write sends exactly one.
//
// Read and Write may be called concurrently with each other, but not with themselves.
// Non-binary messages are drained and ignored.
type Adapter struct {
	conn   contracts.Conn
	ctx    context.Context
	cancel context.CancelFunc
	em     ErrorMapper

	rmu sync.Mutex
	wmu sync.Mutex

	closeOnce sync.Once
	closeErr  error

	laddr net.Addr
	raddr net.Addr
}

func NewAdapter(conn contracts.Conn, local, remote net.Addr) *Adapter {
	ctx, cancel := context.WithCancel(context.Background())
	return &Adapter{
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
		em:     DefaultErrorMapper{},
		laddr:  local,
		raddr:  remote,
	}
}

func (a *Adapter) Read(p []byte) (int, error) {
	a.rmu.Lock()
	defer a.rmu.Unlock()

	for {
		mt, r, err := a.conn.Reader(a.ctx)
		if err != nil {
			return 0, a.em.Map(err)
		}
		if mt != websocket.MessageBinary {
			_, _ = io.Copy(io.Discard, r)
			continue
		}
		return a.readMessage(r, p)
	}
}

// readMessage copies one whole message into p. A message that does not fit is
// drained so the next Read starts on a message boundary.
func (a *Adapter) readMessage(r io.Reader, p []byte) (int, error) {
	n := 0
	for {
		if n == len(p) {
			var probe [1]byte
			m, err := r.Read(probe[:])
			if m > 0 {
				_, _ = io.Copy(io.Discard, r)
				return 0, io.ErrShortBuffer
			}
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			if err != nil {
				return 0, a.em.Map(err)
			}
			continue
		}
		m, err := r.Read(p[n:])
		n += m
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return 0, a.em.Map(err)
		}
	}
}

func (a *Adapter) Write(p []byte) (int, error) {
	a.wmu.Lock()
	defer a.wmu.Unlock()

	if err := a.conn.Write(a.ctx, websocket.MessageBinary, p); err != nil {
		return 0, a.em.Map(err)
	}
	return len(p), nil
}

func (a *Adapter) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.conn.Close(websocket.StatusNormalClosure, "")
		a.cancel()
	})
	return a.closeErr
}

func (a *Adapter) LocalAddr() net.Addr {
	if a.laddr != nil {
		return a.laddr
	}
	return &net.TCPAddr{}
}

func (a *Adapter) RemoteAddr() net.Addr {
	if a.raddr != nil {
		return a.raddr
	}
	return &net.TCPAddr{}
}

func (a *Adapter) SetDeadline(time.Time) error      { return errDeadlinesUnsupported }
func (a *Adapter) SetReadDeadline(time.Time) error  { return errDeadlinesUnsupported }
func (a *Adapter) SetWriteDeadline(time.Time) error { return errDeadlinesUnsupported }
