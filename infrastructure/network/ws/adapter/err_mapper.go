package adapter

import (
	"errors"
	"io"

	"github.com/coder/websocket"
)

// ErrorMapper normalizes websocket errors to net.Conn semantics.
type ErrorMapper interface {
	Map(err error) error
}

// DefaultErrorMapper reports an orderly close by the peer as io.EOF, so a
// message connection finishes the same way a stream does.
type DefaultErrorMapper struct{}

func (DefaultErrorMapper) Map(err error) error {
	if err == nil {
		return nil
	}
	var ce websocket.CloseError
	if errors.As(err, &ce) {
		switch ce.Code {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return io.EOF
		}
	}
	return err
}
