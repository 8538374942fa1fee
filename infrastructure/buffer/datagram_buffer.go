package buffer

// Remainder decides what happens to the bytes of a packet beyond a receive's maxLength.
type Remainder int

const (
	// RemainderCarry keeps the tail of the packet at the head of the queue; the next
	// receive reads it, but never together with bytes of the following packet.
	RemainderCarry Remainder = iota
	// RemainderDiscard truncates the packet to maxLength and drops the tail, like recvfrom.
	RemainderDiscard
)

func (r Remainder) String() string {
	switch r {
	case RemainderCarry:
		return "carry"
	case RemainderDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// DatagramBuffer is a bounded ring of discrete packets. minLength is advisory:
// any queued packet, however short, satisfies a receive, and a receive never
// reads past the end of the packet at the head of the queue.
type DatagramBuffer struct {
	packets   [][]byte
	head      int
	tail      int
	count     int
	off       int // consumed bytes of packets[head]
	bytes     int
	remainder Remainder
}

func NewDatagramBuffer(capacity int, remainder Remainder) *DatagramBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &DatagramBuffer{
		packets:   make([][]byte, capacity),
		remainder: remainder,
	}
}

// Push copies one packet into the ring. Empty packets and packets arriving while
// the ring is full are dropped; other packets are unaffected.
func (d *DatagramBuffer) Push(p []byte) bool {
	if len(p) == 0 || d.count == len(d.packets) {
		return false
	}
	pkt := make([]byte, len(p))
	copy(pkt, p)
	d.packets[d.tail] = pkt
	d.tail = (d.tail + 1) % len(d.packets)
	d.count++
	d.bytes += len(pkt)
	return true
}

func (d *DatagramBuffer) Take(_, maxLength int) ([]byte, bool) {
	if d.count == 0 {
		return nil, false
	}
	pkt := d.packets[d.head][d.off:]
	n := len(pkt)
	if maxLength < n {
		n = maxLength
	}
	out := make([]byte, n)
	copy(out, pkt[:n])

	if n == len(pkt) || d.remainder == RemainderDiscard {
		d.bytes -= len(pkt)
		d.pop()
	} else {
		d.off += n
		d.bytes -= n
	}
	return out, true
}

func (d *DatagramBuffer) Drain(maxLength int) []byte {
	out, _ := d.Take(0, maxLength)
	return out
}

func (d *DatagramBuffer) Len() int {
	return d.bytes
}

// Packets is the number of queued packets, including a partially read head.
func (d *DatagramBuffer) Packets() int {
	return d.count
}

func (d *DatagramBuffer) Reset() {
	for d.count > 0 {
		d.pop()
	}
	d.head, d.tail, d.off, d.bytes = 0, 0, 0, 0
}

func (d *DatagramBuffer) pop() {
	d.packets[d.head] = nil
	d.head = (d.head + 1) % len(d.packets)
	d.count--
	d.off = 0
}
