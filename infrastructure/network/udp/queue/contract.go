package queue

// PeerQueue carries the datagrams of one remote peer from the listener's
// shared read loop to that peer's connection.
type PeerQueue interface {
	// Enqueue reports false when the packet was dropped.
	Enqueue(pkt []byte) bool
	ReadInto(dst []byte) (int, error)
	Close()
}
