package transport

import (
	"encoding/json"
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidTransport = errors.New("invalid transport")
)

// Transport selects the framing contract of a Listener or Connection.
type Transport int

const (
	Unknown Transport = iota
	// Stream is TCP: a byte sequence without boundaries.
	Stream
	// Datagram is UDP: every send is one packet, every receive reads within one packet.
	Datagram
	// Message is WebSocket: accepted per handshake like Stream, read per message like Datagram.
	Message
)

// PacketGranular reports whether receives are bounded by packet (message) boundaries.
func (t Transport) PacketGranular() bool {
	return t == Datagram || t == Message
}

// Network returns the Go network name used to dial or listen.
func (t Transport) Network() string {
	switch t {
	case Stream, Message:
		return "tcp"
	case Datagram:
		return "udp"
	default:
		return ""
	}
}

func (t Transport) MarshalJSON() ([]byte, error) {
	if t < Unknown || t > Message {
		return nil, ErrInvalidTransport
	}
	return json.Marshal(t.String())
}

func (t *Transport) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return t.parse(s)
}

func (t Transport) MarshalYAML() (any, error) {
	if t < Unknown || t > Message {
		return nil, ErrInvalidTransport
	}
	return t.String(), nil
}

func (t *Transport) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return t.parse(s)
}

// Parse accepts both protocol names (TCP/UDP/WS) and contract names (stream/datagram/message).
func Parse(s string) (Transport, error) {
	var t Transport
	err := t.parse(s)
	return t, err
}

func (t *Transport) parse(s string) error {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UNKNOWN":
		*t = Unknown
	case "TCP", "STREAM":
		*t = Stream
	case "UDP", "DATAGRAM":
		*t = Datagram
	case "WS", "MESSAGE":
		*t = Message
	default:
		return ErrInvalidTransport
	}
	return nil
}

func (t Transport) String() string {
	switch t {
	case Unknown:
		return "UNKNOWN"
	case Stream:
		return "TCP"
	case Datagram:
		return "UDP"
	case Message:
		return "WS"
	default:
		return ErrInvalidTransport.Error()
	}
}
