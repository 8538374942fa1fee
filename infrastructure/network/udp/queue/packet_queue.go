package queue

import (
	"io"
	"sync"
)

type slot struct {
	n    int
	data []byte
}

// PacketQueue is a bounded ring buffer of datagrams for a single peer.
// A slot's storage is allocated on first use and grows to the largest packet
// it has held, so an idle or quiet peer costs little more than its slot headers.
type PacketQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	maxLen int
	buf    []slot
	head   int
	tail   int
	count  int
	closed bool
}

func NewPacketQueue(capacity, maxPacketSize int) *PacketQueue {
	if capacity <= 0 {
		capacity = 1
	}
	q := &PacketQueue{
		maxLen: maxPacketSize,
		buf:    make([]slot, capacity),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue copies the packet into the peer's ring if there is space.
// When the ring is full the packet is dropped; other peers are unaffected
// and the shared read loop never blocks.
func (q *PacketQueue) Enqueue(pkt []byte) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || q.count == len(q.buf) || len(pkt) > q.maxLen {
		return false
	}

	s := &q.buf[q.tail]
	if cap(s.data) < len(pkt) {
		s.data = make([]byte, len(pkt))
	}
	s.n = copy(s.data[:cap(s.data)], pkt)

	q.tail = (q.tail + 1) % len(q.buf)
	q.count++
	q.cond.Signal()
	return true
}

// ReadInto blocks until there is a packet or the queue is closed and empty.
// A packet larger than dst is dropped and reported as io.ErrShortBuffer.
func (q *PacketQueue) ReadInto(dst []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.count == 0 {
		return 0, io.EOF
	}

	s := &q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	// A packet that does not fit is consumed so the next read sees the next packet.
	if len(dst) < s.n {
		return 0, io.ErrShortBuffer
	}
	return copy(dst, s.data[:s.n]), nil
}

func (q *PacketQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

func (q *PacketQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}
