package adapters

import (
	"io"
	"net"
	"transit/application"
)

// StreamAdapter wraps an accepted or dialed TCP connection. Write returns only
// once every byte was accepted by the local stack, or on error.
type StreamAdapter struct {
	conn net.Conn
}

func NewStreamAdapter(conn net.Conn) application.ConnectionAdapter {
	return &StreamAdapter{conn: conn}
}

func (a *StreamAdapter) Write(data []byte) (int, error) {
	return a.writeFull(data)
}

func (a *StreamAdapter) writeFull(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		n, err := a.conn.Write(p)
		if n > 0 {
			p = p[n:]
			written += n
		}
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}

func (a *StreamAdapter) Read(buffer []byte) (int, error) {
	return a.conn.Read(buffer)
}

func (a *StreamAdapter) Close() error {
	return a.conn.Close()
}
