package socket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"transit/application"
	appnet "transit/application/network"
	"transit/application/dispatch"
	"transit/application/logging"
	"transit/domain/network"
	"transit/domain/network/endpoint"
	"transit/domain/network/transport"
	"transit/infrastructure/buffer"
	infradispatch "transit/infrastructure/dispatch"
	"transit/infrastructure/network/sockopt"
	"transit/infrastructure/telemetry/metrics"
	"transit/infrastructure/telemetry/trafficstats"

	"github.com/google/uuid"
)

// streamReadSize is the chunk the stream reader asks the OS for.
const streamReadSize = 64 << 10

var _ appnet.Connection = (*Connection)(nil)

type sendRequest struct {
	data       []byte
	completion appnet.SendCompletion
}

// Connection is one accepted or dialed channel. Completions run on its queue,
// in submission order and never while internal locks are held.
type Connection struct {
	id        string
	transport transport.Transport
	remote    endpoint.Endpoint
	adapter   application.ConnectionAdapter
	queue     dispatch.Queue
	writer    dispatch.Queue
	logger    logging.Logger
	metrics   *metrics.Metrics
	tx        *trafficstats.Recorder
	// maxPacket bounds packet-granular sends and reads; 0 for Stream.
	maxPacket   int
	streamLimit int
	onClose     func(*Connection)

	mu           sync.Mutex
	room         *sync.Cond
	state        appnet.State
	reads        *buffer.AsyncReadBuffer
	pending      []sendRequest
	stateHandler appnet.StateHandler
	ready        []func()
	flushing     bool
}

func newConnection(
	t transport.Transport,
	remote endpoint.Endpoint,
	adapter application.ConnectionAdapter,
	o *options,
	queue dispatch.Queue,
) *Connection {
	c := &Connection{
		id:           uuid.NewString(),
		transport:    t,
		remote:       remote,
		adapter:      adapter,
		queue:        queue,
		writer:       infradispatch.NewSerialQueue(),
		logger:       o.logger,
		metrics:      o.metrics,
		tx:           trafficstats.NewRecorder(o.metrics.Collector()),
		streamLimit:  o.settings.StreamBufferLimit,
		reads:        buffer.NewAsyncReadBuffer(o.readBuffer(t)),
		stateHandler: o.stateHandler,
	}
	if t.PacketGranular() {
		c.maxPacket = o.settings.MaxPacketSize(t)
	}
	c.room = sync.NewCond(&c.mu)
	c.metrics.ConnectionOpened(t)
	return c
}

func (c *Connection) ID() string { return c.id }

func (c *Connection) Transport() transport.Transport { return c.transport }

func (c *Connection) RemoteEndpoint() endpoint.Endpoint { return c.remote }

func (c *Connection) State() appnet.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetStateHandler replaces the lifecycle observer. Transitions already
// reported are not replayed.
func (c *Connection) SetStateHandler(handler appnet.StateHandler) {
	c.mu.Lock()
	c.stateHandler = handler
	c.mu.Unlock()
}

// Start begins servicing sends and receives. Sends issued before Start are
// written now, in order.
func (c *Connection) Start() error {
	c.mu.Lock()
	switch c.state {
	case appnet.StateClosed:
		c.mu.Unlock()
		return network.ErrConnectionClosed
	case appnet.StateStarted:
		c.mu.Unlock()
		return network.ErrAlreadyStarted
	}
	c.state = appnet.StateStarted
	for _, s := range c.pending {
		c.dispatchWrite(s)
	}
	c.pending = nil
	c.notifyState(appnet.StateStarted, nil)
	c.mu.Unlock()

	go c.readLoop()
	c.flush()
	return nil
}

// Send writes data as one packet (Datagram, Message) or as a byte range
// (Stream). completion fires once the OS accepted every byte or the send failed.
func (c *Connection) Send(data []byte, completion appnet.SendCompletion) {
	if completion == nil {
		completion = func(error) {}
	}
	req := sendRequest{data: append([]byte(nil), data...), completion: completion}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.state == appnet.StateClosed:
		c.writer.Dispatch(func() { c.post(func() { completion(network.ErrConnectionClosed) }) })
	case c.maxPacket > 0 && len(data) > c.maxPacket:
		c.writer.Dispatch(func() { c.post(func() { completion(network.ErrPayloadTooLarge) }) })
	case c.state == appnet.StateReady:
		c.pending = append(c.pending, req)
	default:
		c.dispatchWrite(req)
	}
}

// Receive queues a read of [minLength, maxLength] bytes behind earlier receives.
func (c *Connection) Receive(minLength, maxLength int, completion appnet.ReceiveCompletion) {
	if completion == nil {
		completion = func([]byte, error) {}
	}
	c.mu.Lock()
	c.queueDeliveries(c.reads.Enqueue(minLength, maxLength, buffer.Completion(completion)))
	c.room.Broadcast()
	c.mu.Unlock()
	c.flush()
}

// Close fails pending receives with ErrConnectionClosed, discards buffered
// data and releases the socket. Safe to call more than once.
func (c *Connection) Close() error {
	c.shutdown(nil)
	return nil
}

// ReceiveContext waits for a Receive to complete or ctx to end. On ctx expiry
// the receive stays queued and its result is discarded.
func (c *Connection) ReceiveContext(ctx context.Context, minLength, maxLength int) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	c.Receive(minLength, maxLength, func(data []byte, err error) {
		done <- result{data: data, err: err}
	})
	select {
	case r := <-done:
		return r.data, r.err
	case <-ctx.Done():
		return nil, network.NewDeadlineError(ctx.Err())
	}
}

func (c *Connection) SendContext(ctx context.Context, data []byte) error {
	done := make(chan error, 1)
	c.Send(data, func(err error) {
		done <- err
	})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return network.NewDeadlineError(ctx.Err())
	}
}

// dispatchWrite must be called with c.mu held so writes keep submission order.
func (c *Connection) dispatchWrite(req sendRequest) {
	c.writer.Dispatch(func() { c.write(req) })
}

func (c *Connection) write(req sendRequest) {
	if c.State() == appnet.StateClosed {
		c.post(func() { req.completion(network.ErrConnectionClosed) })
		return
	}
	n, err := c.adapter.Write(req.data)
	if n > 0 {
		c.tx.RecordTX(n)
		c.metrics.Sent(c.transport, n)
	}
	if err == nil {
		c.post(func() { req.completion(nil) })
		return
	}
	if c.transport == transport.Datagram && sockopt.IsConnRefused(err) {
		c.logger.Printf("connection %s: send to %s refused: %v", c.id, c.remote, err)
		c.post(func() { req.completion(err) })
		return
	}
	if c.State() == appnet.StateClosed {
		c.post(func() { req.completion(network.ErrConnectionClosed) })
		return
	}
	wrapped := fmt.Errorf("%w: %w", network.ErrConnectionClosed, err)
	c.post(func() { req.completion(wrapped) })
	c.fail(wrapped)
}

func (c *Connection) readLoop() {
	rx := trafficstats.NewRecorder(c.metrics.Collector())
	defer rx.Flush()

	size := streamReadSize
	if c.maxPacket > 0 {
		size = c.maxPacket
	}
	buf := make([]byte, size)
	for {
		if !c.waitForRoom() {
			return
		}
		n, err := c.adapter.Read(buf)
		if n > 0 {
			rx.RecordRX(n)
			c.metrics.Received(c.transport, n)
			c.deliver(buf[:n])
		} else if err == nil && c.transport.PacketGranular() {
			c.drop(metrics.DropEmpty, "empty packet")
		}
		if err == nil {
			continue
		}
		if c.transport.PacketGranular() && errors.Is(err, io.ErrShortBuffer) {
			c.drop(metrics.DropOversize, fmt.Sprintf("packet larger than %d bytes", size))
			continue
		}
		if c.transport == transport.Datagram && sockopt.IsConnRefused(err) {
			c.logger.Printf("connection %s: %s unreachable: %v", c.id, c.remote, err)
			continue
		}
		c.readFailed(err)
		return
	}
}

// waitForRoom holds a stream reader while the buffer is at its limit.
func (c *Connection) waitForRoom() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transport == transport.Stream {
		for c.state == appnet.StateStarted && c.reads.Buffered() >= max(c.streamLimit, c.reads.Wanted()) {
			c.room.Wait()
		}
	}
	return c.state == appnet.StateStarted
}

func (c *Connection) deliver(p []byte) {
	c.mu.Lock()
	ok, ds := c.reads.Push(p)
	c.queueDeliveries(ds)
	open := c.state != appnet.StateClosed
	c.mu.Unlock()
	if !ok && open && c.transport.PacketGranular() {
		c.drop(metrics.DropQueueFull, "receive queue full")
	}
	c.flush()
}

func (c *Connection) drop(reason, what string) {
	c.logger.Printf("connection %s: dropped packet from %s: %s", c.id, c.remote, what)
	c.metrics.Dropped(c.transport, reason)
}

func (c *Connection) readFailed(err error) {
	if errors.Is(err, io.EOF) && c.transport != transport.Datagram {
		c.mu.Lock()
		c.queueDeliveries(c.reads.Finish())
		c.mu.Unlock()
		c.logger.Printf("connection %s: %s finished sending", c.id, c.remote)
		c.flush()
		return
	}
	if c.State() == appnet.StateClosed {
		return
	}
	c.logger.Printf("connection %s: read from %s failed: %v", c.id, c.remote, err)
	c.fail(fmt.Errorf("%w: %w", network.ErrConnectionClosed, err))
}

func (c *Connection) fail(err error) {
	c.shutdown(err)
}

func (c *Connection) shutdown(cause error) {
	c.mu.Lock()
	if c.state == appnet.StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = appnet.StateClosed
	c.queueDeliveries(c.reads.Close(cause))
	for _, s := range c.pending {
		completion := s.completion
		c.ready = append(c.ready, func() { completion(network.ErrConnectionClosed) })
	}
	c.pending = nil
	c.notifyState(appnet.StateClosed, cause)
	c.room.Broadcast()
	c.mu.Unlock()

	if err := c.adapter.Close(); err != nil && !errors.Is(err, io.EOF) {
		c.logger.Printf("connection %s: close: %v", c.id, err)
	}
	c.writer.Dispatch(c.tx.Flush)
	if c.onClose != nil {
		c.onClose(c)
	}
	c.flush()
}

// notifyState must be called with c.mu held.
func (c *Connection) notifyState(state appnet.State, err error) {
	if handler := c.stateHandler; handler != nil {
		c.ready = append(c.ready, func() { handler(state, err) })
	}
}

// queueDeliveries must be called with c.mu held.
func (c *Connection) queueDeliveries(ds []buffer.Delivery) {
	for _, d := range ds {
		c.ready = append(c.ready, d.Fire)
	}
}

func (c *Connection) post(task func()) {
	c.mu.Lock()
	c.ready = append(c.ready, task)
	c.mu.Unlock()
	c.flush()
}

// flush hands ready completions to the queue. A single goroutine flushes at a
// time so the queue sees them in the order they became ready.
func (c *Connection) flush() {
	c.mu.Lock()
	if c.flushing {
		c.mu.Unlock()
		return
	}
	c.flushing = true
	for len(c.ready) > 0 {
		batch := c.ready
		c.ready = nil
		c.mu.Unlock()
		for _, task := range batch {
			c.queue.Dispatch(task)
		}
		c.mu.Lock()
	}
	c.flushing = false
	c.mu.Unlock()
}
