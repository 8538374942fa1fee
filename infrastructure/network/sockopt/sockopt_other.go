//go:build !unix && !windows

package sockopt

func setBuffers(uintptr, int, int) error { return nil }

func IsAddrInUse(error) bool { return false }

func IsConnRefused(error) bool { return false }
