package network

import "errors"

var (
	// ErrAddressInUse is returned by Bind when the port is already bound.
	ErrAddressInUse = errors.New("address already in use")
	// ErrPayloadTooLarge rejects a packet-granular send above the transport limit; nothing is sent.
	ErrPayloadTooLarge = errors.New("payload exceeds maximum datagram size")
	// ErrConnectionClosed completes every operation issued on, or pending at, a closed connection.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrPartialDataOnClose accompanies the final short stream read when the peer finished first.
	ErrPartialDataOnClose = errors.New("peer closed before minimum length was buffered")
	ErrInvalidLength      = errors.New("invalid receive length window")
	ErrAlreadyStarted     = errors.New("already started")
	ErrListenerClosed     = errors.New("listener closed")
)

// DeadlineError reports that a caller-imposed deadline fired before a completion.
// It satisfies net.Error with Timeout() == true.
type DeadlineError struct{ cause error }

func NewDeadlineError(cause error) *DeadlineError {
	return &DeadlineError{cause: cause}
}

func (e DeadlineError) Error() string   { return "deadline exceeded waiting for completion: " + e.cause.Error() }
func (e DeadlineError) Unwrap() error   { return e.cause }
func (e DeadlineError) Timeout() bool   { return true }
func (e DeadlineError) Temporary() bool { return false }
