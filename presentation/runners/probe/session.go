package probe

import (
	"context"
	"fmt"
	appnet "transit/application/network"
	"transit/domain/network/endpoint"
	"transit/domain/network/transport"
	"transit/infrastructure/socket"
)

// session is one loopback listener with a dialed, started client.
type session struct {
	listener *socket.Listener
	client   *socket.Connection
	accepted chan appnet.Connection
	opened   []appnet.Connection
}

func openSession(ctx context.Context, t transport.Transport, opts []socket.Option) (*session, error) {
	l, err := socket.Bind(t, 0, opts...)
	if err != nil {
		return nil, err
	}
	s := &session{listener: l, accepted: make(chan appnet.Connection, 8)}
	if err = l.Start(func(c appnet.Connection) { s.accepted <- c }); err != nil {
		s.close()
		return nil, err
	}
	s.client, err = socket.Dial(ctx, endpoint.New(loopbackHost, l.Port()), t, opts...)
	if err != nil {
		s.close()
		return nil, err
	}
	if err = s.client.Start(); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

// accept waits for the next connection the listener reports and starts it.
func (s *session) accept(ctx context.Context) (appnet.Connection, error) {
	select {
	case c := <-s.accepted:
		s.opened = append(s.opened, c)
		return c, c.Start()
	case <-ctx.Done():
		return nil, fmt.Errorf("no connection accepted: %w", ctx.Err())
	}
}

func (s *session) close() {
	if s.client != nil {
		_ = s.client.Close()
	}
	for _, c := range s.opened {
		_ = c.Close()
	}
	_ = s.listener.Close()
}
