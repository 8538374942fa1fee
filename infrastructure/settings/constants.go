package settings

const (
	// DefaultMaxDatagramSize fits a jumbo-frame UDP payload.
	DefaultMaxDatagramSize = 9216
	// MaxUDPPayload is the largest payload an IPv4 UDP datagram can carry.
	MaxUDPPayload = 65507

	DefaultStreamBufferLimit     = 1 << 20
	DefaultDatagramQueueCapacity = 256
	DefaultPeerQueueCapacity     = 64
	DefaultMaxPeers              = 1024
	DefaultReadBatchSize         = 16
	DefaultSocketBufferSize      = 4 << 20
	DefaultWebSocketPath         = "/ws"
	DefaultMaxMessageSize        = 64 << 10
	DefaultDialTimeoutMs         = 5000
)
