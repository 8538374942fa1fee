package application

// ConnectionAdapter provides a single and trivial API for any supported transports.
//
// For packet-granular transports Read returns exactly one packet per call and
// Write emits exactly one packet per call.
type ConnectionAdapter interface {
	Write([]byte) (int, error)
	Read([]byte) (int, error)
	Close() error
}
