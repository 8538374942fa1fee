//go:build windows

package sockopt

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

func setBuffers(fd uintptr, rcv, snd int) error {
	h := windows.Handle(fd)
	if rcv > 0 {
		if err := windows.SetsockoptInt(h, windows.SOL_SOCKET, windows.SO_RCVBUF, rcv); err != nil {
			return fmt.Errorf("set SO_RCVBUF: %w", err)
		}
	}
	if snd > 0 {
		if err := windows.SetsockoptInt(h, windows.SOL_SOCKET, windows.SO_SNDBUF, snd); err != nil {
			return fmt.Errorf("set SO_SNDBUF: %w", err)
		}
	}
	return nil
}

func IsAddrInUse(err error) bool {
	return errors.Is(err, windows.WSAEADDRINUSE)
}

// IsConnRefused reports an ICMP port-unreachable. Windows surfaces it on UDP
// sockets as WSAECONNRESET.
func IsConnRefused(err error) bool {
	return errors.Is(err, windows.WSAECONNREFUSED) || errors.Is(err, windows.WSAECONNRESET)
}
