package adapters

import (
	"io"
	"net"
	"transit/application"
)

// DialedAdapter wraps a connected UDP socket. One Read returns one datagram.
// A datagram above maxDatagramSize, or larger than the caller's buffer, is
// consumed and reported as io.ErrShortBuffer instead of being truncated.
//
// Read is not safe for concurrent use.
type DialedAdapter struct {
	conn *net.UDPConn
	max  int
	// one byte past max, so an oversize datagram shows up as n > max.
	buf []byte
}

func NewDialedAdapter(conn *net.UDPConn, maxDatagramSize int) application.ConnectionAdapter {
	return &DialedAdapter{
		conn: conn,
		max:  maxDatagramSize,
		buf:  make([]byte, maxDatagramSize+1),
	}
}

func (d *DialedAdapter) Write(p []byte) (int, error) {
	return d.conn.Write(p)
}

func (d *DialedAdapter) Read(p []byte) (int, error) {
	n, _, _, _, err := d.conn.ReadMsgUDPAddrPort(d.buf, nil)
	if err != nil {
		return 0, err
	}
	if n > d.max || n > len(p) {
		return 0, io.ErrShortBuffer
	}
	return copy(p, d.buf[:n]), nil
}

func (d *DialedAdapter) Close() error {
	return d.conn.Close()
}
