package mode_selection

import (
	"strings"
	"transit/domain/mode"
)

var _ AppMode = (*ArgsAppMode)(nil)

type ArgsAppMode struct {
	arguments []string
}

func NewArgsAppMode(arguments []string) *ArgsAppMode {
	return &ArgsAppMode{
		arguments: arguments,
	}
}

func (a *ArgsAppMode) Mode() (mode.Mode, error) {
	if len(a.arguments) == 0 {
		return mode.Unknown, mode.ErrNoExecPath
	}

	if len(a.arguments) < 2 {
		return mode.Unknown, mode.ErrNoMode
	}

	modeArgument := strings.TrimSpace(strings.ToLower(a.arguments[1]))
	switch modeArgument {
	case "probe", "p":
		return mode.Probe, nil
	case "serve", "s":
		return mode.Serve, nil
	case "version", "--version", "-v":
		return mode.Version, nil
	default:
		return mode.Unknown, mode.InvalidModeError{Mode: modeArgument}
	}
}

// ConfigPath is the optional settings file argument following the mode.
func (a *ArgsAppMode) ConfigPath() string {
	if len(a.arguments) < 3 {
		return ""
	}
	return strings.TrimSpace(a.arguments[2])
}
