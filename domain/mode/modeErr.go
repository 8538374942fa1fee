package mode

import (
	"errors"
	"fmt"
)

var (
	ErrNoExecPath  = errors.New("missing execution binary path as first argument")
	ErrNoMode      = errors.New("no mode provided")
	ErrInvalidMode = errors.New("not a valid mode")
)

// InvalidModeError names the rejected mode argument. It matches ErrInvalidMode.
type InvalidModeError struct {
	Mode string
}

func (e InvalidModeError) Error() string {
	if e.Mode == "" {
		return fmt.Sprintf("empty string is %s", ErrInvalidMode)
	}
	return fmt.Sprintf("%s is %s", e.Mode, ErrInvalidMode)
}

func (e InvalidModeError) Unwrap() error { return ErrInvalidMode }
