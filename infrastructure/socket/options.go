package socket

import (
	appnet "transit/application/network"
	"transit/application/dispatch"
	"transit/application/logging"
	"transit/domain/network/transport"
	"transit/infrastructure/buffer"
	infradispatch "transit/infrastructure/dispatch"
	infralogging "transit/infrastructure/logging"
	"transit/infrastructure/settings"
	"transit/infrastructure/telemetry/metrics"
)

// Option configures a Listener or a dialed Connection.
type Option func(*options)

type options struct {
	settings     settings.Settings
	logger       logging.Logger
	queue        dispatch.Queue
	newQueue     func() dispatch.Queue
	stateHandler appnet.StateHandler
	metrics      *metrics.Metrics
}

func newOptions(opts []Option) *options {
	o := &options{settings: settings.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.settings = o.settings.WithDefaults()
	if o.logger == nil {
		o.logger = infralogging.NewLogLogger()
	}
	if o.newQueue == nil {
		o.newQueue = infradispatch.NewSerialQueue
	}
	if o.queue == nil {
		o.queue = o.newQueue()
	}
	return o
}

// WithSettings replaces the environment parameters. Zero fields take defaults.
func WithSettings(s settings.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithQueue runs the listener and every connection it creates on q.
func WithQueue(q dispatch.Queue) Option {
	return func(o *options) {
		o.queue = q
		o.newQueue = func() dispatch.Queue { return q }
	}
}

// WithQueueFactory gives each accepted connection the queue returned by newQueue.
func WithQueueFactory(newQueue func() dispatch.Queue) Option {
	return func(o *options) {
		o.newQueue = newQueue
	}
}

// WithStateHandler installs handler on the dialed connection, or on every
// connection a listener accepts.
func WithStateHandler(handler appnet.StateHandler) Option {
	return func(o *options) {
		o.stateHandler = handler
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithHost sets the local bind address; empty binds every interface.
func WithHost(host string) Option {
	return func(o *options) {
		o.settings.Host = host
	}
}

func WithMaxDatagramSize(size int) Option {
	return func(o *options) {
		o.settings.MaxDatagramSize = size
	}
}

func WithDatagramRemainder(r settings.DatagramRemainder) Option {
	return func(o *options) {
		o.settings.DatagramRemainder = r
	}
}

func (o *options) readBuffer(t transport.Transport) buffer.ReadBuffer {
	if !t.PacketGranular() {
		return buffer.NewStreamBuffer(streamReadSize)
	}
	remainder := buffer.RemainderCarry
	if o.settings.DatagramRemainder == settings.RemainderDiscard {
		remainder = buffer.RemainderDiscard
	}
	return buffer.NewDatagramBuffer(o.settings.DatagramQueueCapacity, remainder)
}
