package network

import (
	"context"
	"transit/domain/network/endpoint"
	"transit/domain/network/transport"
)

// ReceiveCompletion is invoked exactly once per Receive, in submission order.
// A non-nil data slice together with ErrPartialDataOnClose carries the final
// short stream record.
type ReceiveCompletion func(data []byte, err error)

// SendCompletion is invoked exactly once per Send after the payload was handed
// to the OS (or rejected).
type SendCompletion func(err error)

type State int

const (
	StateReady State = iota
	StateStarted
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateStarted:
		return "started"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateHandler observes lifecycle transitions. err is the fatal network error
// for a Closed transition caused by the network, nil otherwise.
type StateHandler func(state State, err error)

// Connection is an established bidirectional channel, accepted or dialed.
// Nothing is read from or written to the network before Start.
type Connection interface {
	ID() string
	Transport() transport.Transport
	RemoteEndpoint() endpoint.Endpoint
	State() State
	SetStateHandler(handler StateHandler)
	Start() error
	Send(data []byte, completion SendCompletion)
	Receive(minLength, maxLength int, completion ReceiveCompletion)
	// SendContext and ReceiveContext block until the completion fires or ctx is done.
	SendContext(ctx context.Context, data []byte) error
	ReceiveContext(ctx context.Context, minLength, maxLength int) ([]byte, error)
	Close() error
}

// ConnectionObserver is notified once per accepted connection: once per
// handshake for Stream and Message, once per remote peer for Datagram.
type ConnectionObserver func(conn Connection)

type Listener interface {
	Transport() transport.Transport
	Port() uint16
	Start(onNewConnection ConnectionObserver) error
	Close() error
}
