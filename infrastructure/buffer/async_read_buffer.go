package buffer

import (
	"transit/domain/network"
)

type Completion func(data []byte, err error)

// Delivery is a receive completion together with its result, ready to be fired
// on the connection's execution context.
type Delivery struct {
	Completion Completion
	Data       []byte
	Err        error
}

func (d Delivery) Fire() {
	if d.Completion != nil {
		d.Completion(d.Data, d.Err)
	}
}

type waiter struct {
	minLength  int
	maxLength  int
	completion Completion
	err        error
}

// AsyncReadBuffer pairs a ReadBuffer with the FIFO of receives waiting on it.
// Every mutation returns the deliveries it made ready, in submission order; the
// caller fires them outside its own lock.
//
// Not safe for concurrent use.
type AsyncReadBuffer struct {
	buf      ReadBuffer
	waiters  []waiter
	finished bool
	closeErr error
}

func NewAsyncReadBuffer(buf ReadBuffer) *AsyncReadBuffer {
	return &AsyncReadBuffer{buf: buf}
}

// Enqueue registers a receive. A window with maxLength <= 0 or minLength > maxLength
// completes with ErrInvalidLength, in its turn. minLength 0 is treated as 1.
func (a *AsyncReadBuffer) Enqueue(minLength, maxLength int, completion Completion) []Delivery {
	w := waiter{minLength: minLength, maxLength: maxLength, completion: completion}
	switch {
	case maxLength <= 0 || minLength > maxLength:
		w.err = network.ErrInvalidLength
	case minLength <= 0:
		w.minLength = 1
	}
	a.waiters = append(a.waiters, w)
	return a.service()
}

// Push stores inbound bytes and serves whatever they satisfy.
func (a *AsyncReadBuffer) Push(p []byte) (bool, []Delivery) {
	if a.closeErr != nil || a.finished {
		return false, nil
	}
	if !a.buf.Push(p) {
		return false, nil
	}
	return true, a.service()
}

// Finish records that the peer will send nothing more. Waiters that can no longer
// be satisfied get the remaining bytes with ErrPartialDataOnClose, then ErrConnectionClosed.
func (a *AsyncReadBuffer) Finish() []Delivery {
	a.finished = true
	return a.service()
}

// Close discards buffered bytes and fails every waiter, present and future, with err.
func (a *AsyncReadBuffer) Close(err error) []Delivery {
	if err == nil {
		err = network.ErrConnectionClosed
	}
	if a.closeErr == nil {
		a.closeErr = err
	}
	a.buf.Reset()
	return a.service()
}

func (a *AsyncReadBuffer) Pending() int {
	return len(a.waiters)
}

func (a *AsyncReadBuffer) Buffered() int {
	return a.buf.Len()
}

func (a *AsyncReadBuffer) Finished() bool {
	return a.finished
}

// Wanted is the minimum length of the oldest waiter, 0 when nobody waits.
func (a *AsyncReadBuffer) Wanted() int {
	if len(a.waiters) == 0 {
		return 0
	}
	return a.waiters[0].minLength
}

func (a *AsyncReadBuffer) service() []Delivery {
	var ready []Delivery
	for len(a.waiters) > 0 {
		w := a.waiters[0]
		d := Delivery{Completion: w.completion}
		switch {
		case w.err != nil:
			d.Err = w.err
		case a.closeErr != nil:
			d.Err = a.closeErr
		default:
			data, ok := a.buf.Take(w.minLength, w.maxLength)
			switch {
			case ok:
				d.Data = data
			case !a.finished:
				return ready
			default:
				if rest := a.buf.Drain(w.maxLength); len(rest) > 0 {
					d.Data, d.Err = rest, network.ErrPartialDataOnClose
				} else {
					d.Err = network.ErrConnectionClosed
				}
			}
		}
		a.waiters[0] = waiter{}
		a.waiters = a.waiters[1:]
		ready = append(ready, d)
	}
	return ready
}
