package buffer

// ReadBuffer holds inbound bytes for one connection and decides how a
// [minLength, maxLength] receive window is cut out of them.
//
// Implementations are not safe for concurrent use; the owning connection serializes access.
type ReadBuffer interface {
	// Push stores inbound bytes: an arbitrary chunk for streams, exactly one packet for
	// packet buffers. It returns false when the bytes were dropped.
	Push(p []byte) bool
	// Take returns the bytes for one receive, or false if the window cannot be satisfied yet.
	Take(minLength, maxLength int) ([]byte, bool)
	// Drain returns what is left (bounded by maxLength and packet boundaries) after the peer
	// finished, or nil when nothing is buffered.
	Drain(maxLength int) []byte
	// Len is the number of buffered bytes.
	Len() int
	Reset()
}
