package settings

import (
	"encoding/json"
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidRemainder = errors.New("invalid datagram remainder policy")

// DatagramRemainder selects what a datagram receive does with the bytes of a
// packet beyond its maxLength.
type DatagramRemainder int

const (
	// RemainderCarry delivers the tail of the packet to the next receive.
	RemainderCarry DatagramRemainder = iota
	// RemainderDiscard drops the tail, like recvfrom.
	RemainderDiscard
)

func (r DatagramRemainder) String() string {
	switch r {
	case RemainderCarry:
		return "carry"
	case RemainderDiscard:
		return "discard"
	default:
		return ErrInvalidRemainder.Error()
	}
}

func (r DatagramRemainder) MarshalJSON() ([]byte, error) {
	if r != RemainderCarry && r != RemainderDiscard {
		return nil, ErrInvalidRemainder
	}
	return json.Marshal(r.String())
}

func (r *DatagramRemainder) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return r.parse(s)
}

func (r DatagramRemainder) MarshalYAML() (any, error) {
	if r != RemainderCarry && r != RemainderDiscard {
		return nil, ErrInvalidRemainder
	}
	return r.String(), nil
}

func (r *DatagramRemainder) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return r.parse(s)
}

func (r *DatagramRemainder) parse(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "carry":
		*r = RemainderCarry
	case "discard":
		*r = RemainderDiscard
	default:
		return ErrInvalidRemainder
	}
	return nil
}
