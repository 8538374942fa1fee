package buffer

// StreamBuffer is a single growing byte sequence. Receives are served from the
// front as soon as minLength bytes are available, regardless of how many network
// reads delivered them.
type StreamBuffer struct {
	data []byte
	off  int
}

func NewStreamBuffer(initialCapacity int) *StreamBuffer {
	if initialCapacity < 0 {
		initialCapacity = 0
	}
	return &StreamBuffer{data: make([]byte, 0, initialCapacity)}
}

func (s *StreamBuffer) Push(p []byte) bool {
	if len(p) == 0 {
		return false
	}
	s.compact(len(p))
	s.data = append(s.data, p...)
	return true
}

func (s *StreamBuffer) Take(minLength, maxLength int) ([]byte, bool) {
	if s.Len() < minLength || s.Len() == 0 {
		return nil, false
	}
	return s.next(maxLength), true
}

func (s *StreamBuffer) Drain(maxLength int) []byte {
	if s.Len() == 0 {
		return nil
	}
	return s.next(maxLength)
}

func (s *StreamBuffer) Len() int {
	return len(s.data) - s.off
}

func (s *StreamBuffer) Reset() {
	s.data = s.data[:0]
	s.off = 0
}

// next copies out up to n bytes; callers keep the slice after later Pushes reuse the backing array.
func (s *StreamBuffer) next(n int) []byte {
	if avail := s.Len(); n > avail {
		n = avail
	}
	out := make([]byte, n)
	copy(out, s.data[s.off:s.off+n])
	s.off += n
	if s.off == len(s.data) {
		s.Reset()
	}
	return out
}

// compact slides unread bytes to the front when that avoids growing the backing array.
func (s *StreamBuffer) compact(incoming int) {
	if s.off == 0 {
		return
	}
	if len(s.data)+incoming <= cap(s.data) && s.off < len(s.data)/2 {
		return
	}
	n := copy(s.data, s.data[s.off:])
	s.data = s.data[:n]
	s.off = 0
}
