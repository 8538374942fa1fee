package endpoint

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"
)

var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Endpoint identifies a remote or local socket by host and port.
// It is a comparable value: two endpoints are equal when host and port match.
type Endpoint struct {
	host string
	port uint16
}

// New builds an Endpoint. IP literals are canonicalized (IPv4-mapped IPv6 is
// unmapped) so that an endpoint built from user input compares equal to the
// one observed on the wire.
func New(host string, port uint16) Endpoint {
	trimmed := strings.TrimSpace(host)
	if ip, err := netip.ParseAddr(trimmed); err == nil {
		trimmed = ip.Unmap().String()
	}
	return Endpoint{host: trimmed, port: port}
}

// FromAddrPort converts a socket address into its canonical Endpoint.
func FromAddrPort(ap netip.AddrPort) Endpoint {
	return Endpoint{host: ap.Addr().Unmap().String(), port: ap.Port()}
}

// FromNetAddr accepts *net.UDPAddr and *net.TCPAddr; anything else is parsed from String().
func FromNetAddr(addr net.Addr) (Endpoint, error) {
	switch a := addr.(type) {
	case *net.UDPAddr:
		return FromAddrPort(a.AddrPort()), nil
	case *net.TCPAddr:
		return FromAddrPort(a.AddrPort()), nil
	case nil:
		return Endpoint{}, fmt.Errorf("%w: nil address", ErrInvalidEndpoint)
	default:
		return Parse(addr.String())
	}
}

// Parse reads "host:port" or "[v6]:port".
func Parse(raw string) (Endpoint, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(raw))
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if host == "" {
		return Endpoint{}, fmt.Errorf("%w: empty host in %q", ErrInvalidEndpoint, raw)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: bad port %q", ErrInvalidEndpoint, portStr)
	}
	return New(host, uint16(port)), nil
}

func (e Endpoint) Host() string { return e.host }

func (e Endpoint) Port() uint16 { return e.port }

func (e Endpoint) IsZero() bool {
	return e.host == "" && e.port == 0
}

// AddrPort returns the socket address when the host is an IP literal.
func (e Endpoint) AddrPort() (netip.AddrPort, bool) {
	ip, err := netip.ParseAddr(e.host)
	if err != nil {
		return netip.AddrPort{}, false
	}
	return netip.AddrPortFrom(ip, e.port), true
}

func (e Endpoint) String() string {
	return net.JoinHostPort(e.host, strconv.Itoa(int(e.port)))
}
