package probe

import (
	"bytes"
	"context"
	"fmt"
	appnet "transit/application/network"
	"transit/domain/network/transport"
)

// Scenario is one loopback experiment on a fresh listener and client.
type Scenario struct {
	Name      string
	Transport transport.Transport
	Run       func(ctx context.Context, s *session) error
}

func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "tcp-connect", Transport: transport.Stream, Run: connectWithoutData},
		{Name: "tcp-send-receive", Transport: transport.Stream, Run: sendReceive},
		{Name: "tcp-large", Transport: transport.Stream, Run: streamLarge},
		{Name: "udp-connect", Transport: transport.Datagram, Run: datagramConnect},
		{Name: "udp-large", Transport: transport.Datagram, Run: datagramLarge},
		{Name: "udp-small-split", Transport: transport.Datagram, Run: datagramSplit},
		{Name: "udp-multipacket", Transport: transport.Datagram, Run: datagramMultipacket},
		{Name: "udp-spanning", Transport: transport.Datagram, Run: datagramSpanning},
		{Name: "ws-send-receive", Transport: transport.Message, Run: sendReceive},
	}
}

func connectWithoutData(ctx context.Context, s *session) error {
	_, err := s.accept(ctx)
	return err
}

func sendReceive(ctx context.Context, s *session) error {
	server, err := s.accept(ctx)
	if err != nil {
		return err
	}
	if err = s.client.SendContext(ctx, []byte("hello")); err != nil {
		return err
	}
	if err = expect(ctx, server, 5, 5, []byte("hello")); err != nil {
		return err
	}
	if err = server.SendContext(ctx, []byte("world")); err != nil {
		return err
	}
	return expect(ctx, s.client, 5, 5, []byte("world"))
}

func streamLarge(ctx context.Context, s *session) error {
	server, err := s.accept(ctx)
	if err != nil {
		return err
	}
	payload := pattern(20000)
	if err = s.client.SendContext(ctx, payload); err != nil {
		return err
	}
	var got []byte
	for len(got) < len(payload) {
		chunk, err := server.ReceiveContext(ctx, 1, 1024)
		if err != nil {
			return err
		}
		if len(chunk) > 1024 {
			return fmt.Errorf("read %d bytes above the 1024 maximum", len(chunk))
		}
		got = append(got, chunk...)
	}
	if !bytes.Equal(got, payload) {
		return fmt.Errorf("reassembled payload differs")
	}
	return nil
}

// sendFirst sends one datagram so the listener learns about the client.
func sendFirst(ctx context.Context, s *session, payload []byte) (appnet.Connection, error) {
	if err := s.client.SendContext(ctx, payload); err != nil {
		return nil, err
	}
	return s.accept(ctx)
}

func datagramConnect(ctx context.Context, s *session) error {
	server, err := sendFirst(ctx, s, []byte{1})
	if err != nil {
		return err
	}
	return expect(ctx, server, 1, 1, []byte{1})
}

func datagramLarge(ctx context.Context, s *session) error {
	payload := pattern(8192)
	server, err := sendFirst(ctx, s, payload)
	if err != nil {
		return err
	}
	return expect(ctx, server, len(payload), len(payload), payload)
}

func datagramSplit(ctx context.Context, s *session) error {
	payload := pattern(1024)
	server, err := sendFirst(ctx, s, payload)
	if err != nil {
		return err
	}
	if err = expect(ctx, server, 1, 1, payload[:1]); err != nil {
		return err
	}
	return expect(ctx, server, 1023, 1023, payload[1:])
}

func datagramMultipacket(ctx context.Context, s *session) error {
	packets := [][]byte{bytes.Repeat([]byte{1}, 100), bytes.Repeat([]byte{2}, 200), bytes.Repeat([]byte{3}, 300)}
	server, err := sendFirst(ctx, s, packets[0])
	if err != nil {
		return err
	}
	for _, p := range packets[1:] {
		if err = s.client.SendContext(ctx, p); err != nil {
			return err
		}
	}
	for _, p := range packets {
		if err = expect(ctx, server, 1, 1024, p); err != nil {
			return err
		}
	}
	return nil
}

func datagramSpanning(ctx context.Context, s *session) error {
	payload := pattern(1024)
	server, err := sendFirst(ctx, s, payload)
	if err != nil {
		return err
	}
	if err = s.client.SendContext(ctx, payload); err != nil {
		return err
	}
	if err = expect(ctx, server, 1000, 1000, payload[:1000]); err != nil {
		return err
	}
	if err = expect(ctx, server, 1, 1024, payload[1000:]); err != nil {
		return err
	}
	return expect(ctx, server, 1, 1024, payload)
}

func expect(ctx context.Context, c appnet.Connection, minLength, maxLength int, want []byte) error {
	got, err := c.ReceiveContext(ctx, minLength, maxLength)
	if err != nil {
		return fmt.Errorf("receive [%d, %d]: %w", minLength, maxLength, err)
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("receive [%d, %d]: got %d bytes, want %d", minLength, maxLength, len(got), len(want))
	}
	return nil
}

func pattern(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i % 251)
	}
	return p
}
