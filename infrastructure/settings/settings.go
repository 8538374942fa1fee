package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"transit/domain/network/transport"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings carries the environment parameters of listeners and connections.
// Zero-valued fields are filled from the defaults by WithDefaults.
type Settings struct {
	Host                  string            `json:"Host" yaml:"host"`
	MaxDatagramSize       int               `json:"MaxDatagramSize" yaml:"max_datagram_size"`
	DatagramRemainder     DatagramRemainder `json:"DatagramRemainder" yaml:"datagram_remainder"`
	StreamBufferLimit     int               `json:"StreamBufferLimit" yaml:"stream_buffer_limit"`
	DatagramQueueCapacity int               `json:"DatagramQueueCapacity" yaml:"datagram_queue_capacity"`
	PeerQueueCapacity     int               `json:"PeerQueueCapacity" yaml:"peer_queue_capacity"`
	MaxPeers              int               `json:"MaxPeers" yaml:"max_peers"`
	ReadBatchSize         int               `json:"ReadBatchSize" yaml:"read_batch_size"`
	SocketReceiveBuffer   int               `json:"SocketReceiveBuffer" yaml:"socket_receive_buffer"`
	SocketSendBuffer      int               `json:"SocketSendBuffer" yaml:"socket_send_buffer"`
	WebSocketPath         string            `json:"WebSocketPath" yaml:"websocket_path"`
	MaxMessageSize        int               `json:"MaxMessageSize" yaml:"max_message_size"`
	DialTimeoutMs         DialTimeoutMs     `json:"DialTimeoutMs" yaml:"dial_timeout_ms"`
}

// DialTimeoutMs bounds connection establishment when the caller's context has no deadline.
type DialTimeoutMs int

func (d DialTimeoutMs) Duration() time.Duration { return time.Duration(d) * time.Millisecond }

func Default() Settings {
	return Settings{}.WithDefaults()
}

func (s Settings) WithDefaults() Settings {
	setDefault(&s.MaxDatagramSize, DefaultMaxDatagramSize)
	setDefault(&s.StreamBufferLimit, DefaultStreamBufferLimit)
	setDefault(&s.DatagramQueueCapacity, DefaultDatagramQueueCapacity)
	setDefault(&s.PeerQueueCapacity, DefaultPeerQueueCapacity)
	setDefault(&s.MaxPeers, DefaultMaxPeers)
	setDefault(&s.ReadBatchSize, DefaultReadBatchSize)
	setDefault(&s.SocketReceiveBuffer, DefaultSocketBufferSize)
	setDefault(&s.SocketSendBuffer, DefaultSocketBufferSize)
	setDefault(&s.MaxMessageSize, DefaultMaxMessageSize)
	if s.WebSocketPath == "" {
		s.WebSocketPath = DefaultWebSocketPath
	}
	if s.DialTimeoutMs == 0 {
		s.DialTimeoutMs = DefaultDialTimeoutMs
	}
	return s
}

func (s Settings) Validate() error {
	switch {
	case s.MaxDatagramSize <= 0 || s.MaxDatagramSize > MaxUDPPayload:
		return fmt.Errorf("%w: MaxDatagramSize %d out of range 1..%d", ErrInvalidSettings, s.MaxDatagramSize, MaxUDPPayload)
	case s.StreamBufferLimit <= 0:
		return fmt.Errorf("%w: StreamBufferLimit must be positive", ErrInvalidSettings)
	case s.DatagramQueueCapacity <= 0 || s.PeerQueueCapacity <= 0:
		return fmt.Errorf("%w: queue capacities must be positive", ErrInvalidSettings)
	case s.MaxPeers < 0:
		return fmt.Errorf("%w: MaxPeers must not be negative", ErrInvalidSettings)
	case s.ReadBatchSize <= 0:
		return fmt.Errorf("%w: ReadBatchSize must be positive", ErrInvalidSettings)
	case s.SocketReceiveBuffer < 0 || s.SocketSendBuffer < 0:
		return fmt.Errorf("%w: socket buffer sizes must not be negative", ErrInvalidSettings)
	case !strings.HasPrefix(s.WebSocketPath, "/"):
		return fmt.Errorf("%w: WebSocketPath %q must start with /", ErrInvalidSettings, s.WebSocketPath)
	case s.MaxMessageSize <= 0:
		return fmt.Errorf("%w: MaxMessageSize must be positive", ErrInvalidSettings)
	case s.DialTimeoutMs < 0:
		return fmt.Errorf("%w: DialTimeoutMs must not be negative", ErrInvalidSettings)
	}
	return nil
}

// MaxPacketSize is the send/receive ceiling of a packet-granular transport.
func (s Settings) MaxPacketSize(t transport.Transport) int {
	if t == transport.Message {
		return s.MaxMessageSize
	}
	return s.MaxDatagramSize
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
