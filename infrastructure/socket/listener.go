package socket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"sync"
	"time"
	"transit/application/listeners"
	appnet "transit/application/network"
	"transit/domain/network"
	"transit/domain/network/endpoint"
	"transit/domain/network/transport"
	"transit/infrastructure/network/sockopt"
	wsserver "transit/infrastructure/network/ws/server"
	"transit/infrastructure/peers"

	"golang.org/x/sync/errgroup"
)

const (
	wsAcceptQueueSize   = 64
	wsReadHeaderTimeout = 5 * time.Second
	wsShutdownTimeout   = 2 * time.Second
)

var _ appnet.Listener = (*Listener)(nil)

type listenerState int

const (
	listenerReady listenerState = iota
	listenerListening
	listenerClosed
)

// Listener accepts connections on one local port for one transport.
type Listener struct {
	transport transport.Transport
	opts      *options
	port      uint16

	// stream accepts Stream and Message connections.
	stream listeners.TcpListener
	// udp and batch serve Datagram.
	udp   *net.UDPConn
	batch batchReader
	// peers holds the live connections by remote address. Entries leave on Close.
	peers *peers.ConcurrentRepository[*Connection]

	mu       sync.Mutex
	state    listenerState
	observer appnet.ConnectionObserver
	group    *errgroup.Group
	cancel   context.CancelFunc
}

// Bind claims port for t. Port 0 picks an ephemeral port, see Port.
// A taken port fails with ErrAddressInUse.
func Bind(t transport.Transport, port uint16, opts ...Option) (*Listener, error) {
	o := newOptions(opts)
	if err := o.settings.Validate(); err != nil {
		return nil, err
	}
	l := &Listener{transport: t, opts: o}
	addr := net.JoinHostPort(o.settings.Host, strconv.Itoa(int(port)))

	var err error
	switch t {
	case transport.Stream:
		err = l.bindStream(addr)
	case transport.Datagram:
		err = l.bindDatagram(addr)
	case transport.Message:
		err = l.bindMessage(addr)
	default:
		return nil, fmt.Errorf("%w: %v", transport.ErrInvalidTransport, t)
	}
	if err != nil {
		if sockopt.IsAddrInUse(err) {
			return nil, fmt.Errorf("%w: %s: %w", network.ErrAddressInUse, addr, err)
		}
		return nil, fmt.Errorf("bind %s %s: %w", t, addr, err)
	}
	o.logger.Printf("%s listener bound to port %d", t, l.port)
	return l, nil
}

func (l *Listener) bindStream(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	l.stream = ln
	l.peers = peers.NewConcurrentRepository(peers.NewDefaultRepository[*Connection](), 0)
	l.port = portOf(ln.Addr())
	return nil
}

func (l *Listener) bindDatagram(addr string) error {
	s := l.opts.settings
	buffers := sockopt.Buffers{Receive: s.SocketReceiveBuffer, Send: s.SocketSendBuffer}
	conn, err := buffers.ListenPacket(context.Background(), addr)
	if err != nil {
		return err
	}
	l.udp = conn
	l.batch = newBatchReader(conn)
	l.peers = peers.NewConcurrentRepository(peers.NewDefaultRepository[*Connection](), s.MaxPeers)
	l.port = portOf(conn.LocalAddr())
	return nil
}

func (l *Listener) bindMessage(addr string) error {
	s := l.opts.settings
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	queue := make(chan net.Conn, wsAcceptQueueSize)
	handler := wsserver.NewDefaultHandler(wsserver.NewDefaultUpgrader(int64(s.MaxMessageSize)), queue, l.opts.logger)
	server, err := wsserver.NewHttpServer(ln, handler, s.WebSocketPath, wsReadHeaderTimeout, wsShutdownTimeout)
	if err != nil {
		_ = ln.Close()
		return err
	}
	wsListener, err := wsserver.NewListener(server, ln.Addr(), queue)
	if err != nil {
		_ = ln.Close()
		return err
	}
	l.stream = wsListener
	l.peers = peers.NewConcurrentRepository(peers.NewDefaultRepository[*Connection](), 0)
	l.port = portOf(ln.Addr())
	return nil
}

func (l *Listener) Transport() transport.Transport { return l.transport }

// Port is the bound local port, resolved when Bind asked for port 0.
func (l *Listener) Port() uint16 { return l.port }

// Connections returns the connections this listener produced that are not closed yet.
func (l *Listener) Connections() []appnet.Connection {
	live := l.peers.All()
	out := make([]appnet.Connection, 0, len(live))
	for _, c := range live {
		out = append(out, c)
	}
	return out
}

// Start begins accepting. onNewConnection runs on the listener queue with a
// Ready connection; it must Start the connection for it to be serviced.
func (l *Listener) Start(onNewConnection appnet.ConnectionObserver) error {
	if onNewConnection == nil {
		return errors.New("socket: nil connection observer")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case listenerClosed:
		return network.ErrListenerClosed
	case listenerListening:
		return network.ErrAlreadyStarted
	}
	l.state = listenerListening
	l.observer = onNewConnection

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.group, ctx = errgroup.WithContext(ctx)
	switch l.transport {
	case transport.Datagram:
		l.group.Go(func() error { return l.readLoop(ctx) })
	case transport.Message:
		l.stream.(*wsserver.Listener).Start()
		l.group.Go(func() error { return l.acceptLoop(ctx) })
	default:
		l.group.Go(func() error { return l.acceptLoop(ctx) })
	}
	l.opts.logger.Printf("%s listener started on port %d", l.transport, l.port)
	return nil
}

// Stop is Close.
func (l *Listener) Stop() error {
	return l.Close()
}

// Close stops accepting and releases the port. Datagram peer connections
// share the socket and are closed too; accepted Stream and Message
// connections stay open. Safe to call more than once.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.state == listenerClosed {
		l.mu.Unlock()
		return nil
	}
	l.state = listenerClosed
	cancel, group := l.cancel, l.group
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	var errs []error
	if l.transport == transport.Datagram {
		if err := l.udp.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
		for _, conn := range l.peers.Drain() {
			_ = conn.Close()
		}
	} else {
		if err := l.stream.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
		if n := l.peers.Len(); n > 0 {
			l.opts.logger.Printf("%s listener on port %d: %d accepted connections stay open", l.transport, l.port, n)
		}
	}
	if group != nil {
		if err := group.Wait(); err != nil {
			errs = append(errs, err)
		}
	}
	l.opts.logger.Printf("%s listener on port %d closed", l.transport, l.port)
	return errors.Join(errs...)
}

func (l *Listener) acceptLoop(ctx context.Context) error {
	for {
		conn, err := l.stream.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			l.opts.logger.Printf("%s listener on port %d: accept: %v", l.transport, l.port, err)
			return err
		}
		l.accept(conn)
	}
}

func (l *Listener) accept(conn net.Conn) {
	remote, err := endpoint.FromNetAddr(conn.RemoteAddr())
	if err != nil {
		l.opts.logger.Printf("%s listener: rejecting connection: %v", l.transport, err)
		_ = conn.Close()
		return
	}
	key, ok := remote.AddrPort()
	if !ok {
		l.opts.logger.Printf("%s listener: rejecting connection from %s: not an IP endpoint", l.transport, remote)
		_ = conn.Close()
		return
	}
	c, created, _ := l.peers.GetOrCreate(key, func() *Connection {
		nc := newConnection(l.transport, remote, connectionAdapter(l.transport, conn), l.opts, l.opts.newQueue())
		nc.onClose = func(closed *Connection) {
			l.peers.Delete(key, func(registered *Connection) bool { return registered == closed })
		}
		return nc
	})
	if !created {
		l.opts.logger.Printf("%s listener: %s is already connected as %s", l.transport, remote, c.ID())
		_ = conn.Close()
		return
	}
	l.opts.logger.Printf("%s listener on port %d: accepted %s as %s", l.transport, l.port, remote, c.ID())
	l.notify(c)
}

func (l *Listener) notify(c *Connection) {
	l.mu.Lock()
	observer := l.observer
	l.mu.Unlock()
	l.opts.queue.Dispatch(func() { observer(c) })
}

func portOf(addr net.Addr) uint16 {
	if ap, err := netip.ParseAddrPort(addr.String()); err == nil {
		return ap.Port()
	}
	return 0
}
