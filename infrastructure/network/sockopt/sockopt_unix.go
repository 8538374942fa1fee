//go:build unix

package sockopt

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

func setBuffers(fd uintptr, rcv, snd int) error {
	if rcv > 0 {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, rcv); err != nil {
			return fmt.Errorf("set SO_RCVBUF: %w", err)
		}
	}
	if snd > 0 {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, snd); err != nil {
			return fmt.Errorf("set SO_SNDBUF: %w", err)
		}
	}
	return nil
}

func IsAddrInUse(err error) bool {
	return errors.Is(err, unix.EADDRINUSE)
}

// IsConnRefused reports an ICMP port-unreachable surfaced on a connected socket.
func IsConnRefused(err error) bool {
	return errors.Is(err, unix.ECONNREFUSED)
}
